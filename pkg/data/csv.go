package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned for a CSV without a header row.
var ErrEmptyInput = errors.New("csv has no header")

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(s string) bool {
	switch s {
	case "", "NA", "NaN", "N/A", "nan", "null":
		return true
	}
	return false
}

// ReadCSV loads a headed CSV file.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	defer file.Close()

	t, err := ParseCSV(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return t, nil
}

// ParseCSV reads a headed CSV. A column whose present cells all parse as
// numbers is numerical, anything else is categorical.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	header, rows := records[0], records[1:]

	t := &Table{index: map[string]int{}, rows: len(rows)}
	for j, name := range header {
		if t.Has(name) {
			return nil, errors.Errorf("duplicate column %q", name)
		}
		raw := make([]string, len(rows))
		for i, rec := range rows {
			raw[i] = rec[j]
		}
		if err := t.Set(parseColumn(name, raw)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseColumn(name string, raw []string) *Column {
	missing := make([]bool, len(raw))
	nums := make([]float64, len(raw))
	numeric := true
	for i, s := range raw {
		if IsMissing(s) {
			missing[i] = true
			nums[i] = math.NaN()
			continue
		}
		if !numeric {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			numeric = false
			continue
		}
		nums[i] = v
	}
	if numeric {
		return &Column{Name: name, Kind: Numerical, Num: nums, Missing: missing}
	}
	strs := make([]string, len(raw))
	for i, s := range raw {
		if !missing[i] {
			strs[i] = s
		}
	}
	return &Column{Name: name, Kind: Categorical, Str: strs, Missing: missing}
}

// WriteCSV writes t to path, creating parent directories as needed.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "write csv")
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write csv")
	}
	defer file.Close()

	if err := t.Encode(file); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return file.Close()
}

// Encode writes t as CSV. Missing cells are left empty.
func (t *Table) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return err
	}
	rec := make([]string, len(t.cols))
	for i := 0; i < t.rows; i++ {
		for j, c := range t.cols {
			switch {
			case c.Missing[i]:
				rec[j] = ""
			case c.Kind == Numerical:
				rec[j] = strconv.FormatFloat(c.Num[i], 'f', -1, 64)
			default:
				rec[j] = c.Str[i]
			}
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
