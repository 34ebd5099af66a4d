package table

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// Column names of a results table.
const (
	ColFolder   = "folder"
	ColTarget   = "target_variable"
	ColMSE      = "MSE"
	ColRSquared = "R-squared"
)

// ResultColumns is the column order of results and combined tables.
var ResultColumns = []string{ColFolder, ColTarget, ColMSE, ColRSquared}

// ResultRow is one line of a results table.
type ResultRow struct {
	Folder   int
	Target   string
	MSE      float64
	RSquared float64
}

// FormatMetric renders a metric with a fixed number of decimals.
func FormatMetric(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// ResultsFrame builds a text frame from rows, metrics formatted to precision.
// An empty rows slice yields a frame with the header only.
func ResultsFrame(rows []ResultRow, precision int) dataframe.DataFrame {
	folders := make([]string, len(rows))
	targets := make([]string, len(rows))
	mses := make([]string, len(rows))
	r2s := make([]string, len(rows))
	for i, r := range rows {
		folders[i] = strconv.Itoa(r.Folder)
		targets[i] = r.Target
		mses[i] = FormatMetric(r.MSE, precision)
		r2s[i] = FormatMetric(r.RSquared, precision)
	}
	return dataframe.New(
		series.New(folders, series.String, ColFolder),
		series.New(targets, series.String, ColTarget),
		series.New(mses, series.String, ColMSE),
		series.New(r2s, series.String, ColRSquared),
	)
}

// WriteResults writes a results table to path. Write failures are fatal.
func WriteResults(path string, rows []ResultRow, precision int) error {
	if len(rows) == 0 {
		return writeHeaderOnly(path)
	}
	return WriteCSV(path, ResultsFrame(rows, precision))
}

func writeHeaderOnly(path string) error {
	return WriteRecords(path, [][]string{ResultColumns})
}

// ReadResults loads a results or combined table. Tables written before the
// folder column existed get it stamped with folder; pass 0 to require it.
func ReadResults(path string, folder int) ([]ResultRow, error) {
	df, err := LoadText(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{ColTarget, ColMSE, ColRSquared} {
		if !HasColumn(df, col) {
			return nil, errors.NewInputError(path, errors.InputMalformed, errors.Newf("missing column %q", col))
		}
	}

	var folders []string
	if HasColumn(df, ColFolder) {
		folders = df.Col(ColFolder).Records()
	} else if folder == 0 {
		return nil, errors.NewInputError(path, errors.InputMalformed, errors.Newf("missing column %q", ColFolder))
	}

	targets := df.Col(ColTarget).Records()
	mses := df.Col(ColMSE).Records()
	r2s := df.Col(ColRSquared).Records()

	rows := make([]ResultRow, len(targets))
	for i := range targets {
		row := ResultRow{Folder: folder, Target: targets[i]}
		if folders != nil {
			if row.Folder, err = strconv.Atoi(folders[i]); err != nil {
				return nil, errors.NewInputError(path, errors.InputMalformed, err)
			}
		}
		if row.MSE, err = strconv.ParseFloat(mses[i], 64); err != nil {
			return nil, errors.NewInputError(path, errors.InputMalformed, err)
		}
		if row.RSquared, err = strconv.ParseFloat(r2s[i], 64); err != nil {
			return nil, errors.NewInputError(path, errors.InputMalformed, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// StampFolder adds the folder column to a results frame that lacks it and puts
// the columns in ResultColumns order.
func StampFolder(df dataframe.DataFrame, folder int) dataframe.DataFrame {
	if !HasColumn(df, ColFolder) {
		values := make([]string, df.Nrow())
		for i := range values {
			values[i] = strconv.Itoa(folder)
		}
		df = df.Mutate(series.New(values, series.String, ColFolder))
	}
	return df.Select(ResultColumns)
}

// Concat stacks frames with the same column names, in the order given.
func Concat(frames ...dataframe.DataFrame) (dataframe.DataFrame, error) {
	if len(frames) == 0 {
		return dataframe.DataFrame{}, errors.ErrEmptyData
	}
	out := frames[0]
	for _, df := range frames[1:] {
		out = out.RBind(df)
	}
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(out.Err, "concatenate tables")
	}
	return out, nil
}
