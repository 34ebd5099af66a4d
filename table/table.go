// Package table loads delimited files into gota data frames and writes the
// per-folder results tables.
//
// Load classifies unusable inputs as recoverable errors (missing, empty,
// malformed) so callers can skip the unit of work and carry on. Anything else,
// such as a permission failure, is returned as a fatal error.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// Load reads a CSV file with a header row. Column types are detected.
func Load(path string) (dataframe.DataFrame, error) {
	return load(path)
}

// LoadText reads a CSV file keeping every column as text, so values that were
// written already formatted survive a read/write round trip unchanged.
func LoadText(path string) (dataframe.DataFrame, error) {
	return load(path, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
}

func load(path string, opts ...dataframe.LoadOption) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataframe.DataFrame{}, errors.NewInputError(path, errors.InputMissing, nil)
		}
		return dataframe.DataFrame{}, errors.Wrapf(err, "read %s", path)
	}

	if dataLines(data) == 0 {
		return dataframe.DataFrame{}, errors.NewInputError(path, errors.InputEmpty, nil)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), opts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.NewInputError(path, errors.InputMalformed, df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.NewInputError(path, errors.InputEmpty, nil)
	}
	return df, nil
}

// dataLines counts the non-blank lines after the header.
func dataLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// HasColumn reports whether df has a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Floats returns a column as float64 values. Cells that do not parse as numbers
// come back as NaN. A missing column is a recoverable InputError.
func Floats(df dataframe.DataFrame, column string) ([]float64, error) {
	if !HasColumn(df, column) {
		return nil, errors.NewInputError(column, errors.InputMissing, errors.New("no such column"))
	}
	return df.Col(column).Float(), nil
}

// WriteCSV writes df with a header row, creating the parent directory.
// Any failure is fatal.
func WriteCSV(path string, df dataframe.DataFrame) (err error) {
	if df.Err != nil {
		return errors.Wrapf(df.Err, "write %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if err := df.WriteCSV(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// WriteRecords writes raw records. It is used for header-only tables, which a
// data frame cannot hold.
func WriteRecords(path string, records [][]string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
