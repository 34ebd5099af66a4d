package report

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// WorkbookFileName is the workbook written next to the combined tables.
const WorkbookFileName = "combined_regression_results.xlsx"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// SheetName turns a dataset label into a valid sheet name.
func SheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, label)
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

// WriteWorkbook writes one sheet per label, in the order given, holding that
// label's combined table. Numeric cells are stored as numbers. Labels without a
// table are left out; with no tables at all no file is written and ok is false.
func WriteWorkbook(path string, labels []string, tables map[string]dataframe.DataFrame) (ok bool, err error) {
	var present []string
	for _, label := range labels {
		if _, found := tables[label]; found {
			present = append(present, label)
		}
	}
	if len(present) == 0 {
		return false, nil
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	for i, label := range present {
		sheet := SheetName(label)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return false, errors.Wrapf(err, "name sheet %s", sheet)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return false, errors.Wrapf(err, "add sheet %s", sheet)
		}

		for r, record := range tables[label].Records() {
			row := make([]interface{}, len(record))
			for c, v := range record {
				row[c] = cellValue(v, r == 0)
			}
			start, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return false, errors.Wrap(err, "cell name")
			}
			if err := f.SetSheetRow(sheet, start, &row); err != nil {
				return false, errors.Wrapf(err, "write sheet %s", sheet)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "create directory for %s", path)
	}
	if err := f.SaveAs(path); err != nil {
		return false, errors.Wrapf(err, "save %s", path)
	}
	return true, nil
}

func cellValue(v string, header bool) interface{} {
	if header {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(v, 64); err == nil {
		return x
	}
	return v
}
