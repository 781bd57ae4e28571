package data

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNonNumeric     = errors.New("column is not numerical")
	ErrShape          = errors.New("column length does not match table")
)

// Column is one named column. Numerical columns keep their values in Num
// (NaN where missing), categorical ones in Str. Missing flags cells of
// either kind.
type Column struct {
	Name    string
	Kind    Kind
	Num     []float64
	Str     []string
	Missing []bool
}

// Len is the number of cells.
func (c *Column) Len() int { return len(c.Missing) }

// HasMissing reports whether any cell is missing.
func (c *Column) HasMissing() bool {
	for _, m := range c.Missing {
		if m {
			return true
		}
	}
	return false
}

// Present returns the non-missing numerical values.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Num))
	for i, v := range c.Num {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// clone deep copies the column.
func (c *Column) clone() *Column {
	n := &Column{Name: c.Name, Kind: c.Kind, Missing: append([]bool(nil), c.Missing...)}
	if c.Num != nil {
		n.Num = append([]float64(nil), c.Num...)
	}
	if c.Str != nil {
		n.Str = append([]string(nil), c.Str...)
	}
	return n
}

// NewNumeric builds a numerical column; NaN cells are marked missing.
func NewNumeric(name string, vals []float64) *Column {
	c := &Column{Name: name, Kind: Numerical, Num: vals, Missing: make([]bool, len(vals))}
	for i, v := range vals {
		c.Missing[i] = math.IsNaN(v)
	}
	return c
}

// NewCategorical builds a categorical column; missing may be nil.
func NewCategorical(name string, vals []string, missing []bool) *Column {
	if missing == nil {
		missing = make([]bool, len(vals))
	}
	return &Column{Name: name, Kind: Categorical, Str: vals, Missing: missing}
}

// Table is an ordered set of equally long columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable assembles a table. All columns must have the same length.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: map[string]int{}}
	for _, c := range cols {
		if err := t.Set(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len is the number of rows.
func (t *Table) Len() int { return t.rows }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Names lists column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. The slice is shared.
func (t *Table) Columns() []*Column { return t.cols }

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, name)
	}
	return t.cols[i], nil
}

// Numeric returns the values of a numerical column.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numerical {
		return nil, errors.Wrap(ErrNonNumeric, name)
	}
	return c.Num, nil
}

// Set appends c, or replaces the column of the same name in place.
func (t *Table) Set(c *Column) error {
	if len(t.cols) > 0 && c.Len() != t.rows {
		return errors.Wrapf(ErrShape, "%s has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// SetNumeric is Set(NewNumeric(name, vals)).
func (t *Table) SetNumeric(name string, vals []float64) error {
	return t.Set(NewNumeric(name, vals))
}

// Drop removes the named columns. Names that are absent are ignored.
func (t *Table) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
}

// Select keeps exactly the named columns, in the given order.
func (t *Table) Select(names ...string) error {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return err
		}
		cols = append(cols, c)
	}
	t.cols = cols
	t.reindex()
	return nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
}

// Take returns a new table holding rows idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{index: map[string]int{}, rows: len(idx)}
	for _, c := range t.cols {
		n := &Column{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(idx))}
		if c.Num != nil {
			n.Num = make([]float64, len(idx))
		}
		if c.Str != nil {
			n.Str = make([]string, len(idx))
		}
		for j, r := range idx {
			n.Missing[j] = c.Missing[r]
			if n.Num != nil {
				n.Num[j] = c.Num[r]
			}
			if n.Str != nil {
				n.Str[j] = c.Str[r]
			}
		}
		out.index[n.Name] = len(out.cols)
		out.cols = append(out.cols, n)
	}
	return out
}

// Clone deep copies the table.
func (t *Table) Clone() *Table {
	out := &Table{index: map[string]int{}, rows: t.rows}
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// Matrix returns the table as rows of features, leaving out the excluded
// columns. Every remaining column must be numerical and complete.
func (t *Table) Matrix(exclude ...string) (X [][]float64, names []string, err error) {
	skip := make(map[string]bool, len(exclude))
	for _, n := range exclude {
		skip[n] = true
	}
	var cols []*Column
	for _, c := range t.cols {
		if skip[c.Name] {
			continue
		}
		if c.Kind != Numerical {
			return nil, nil, errors.Wrap(ErrNonNumeric, c.Name)
		}
		if c.HasMissing() {
			return nil, nil, errors.Errorf("column %s has missing values", c.Name)
		}
		cols = append(cols, c)
		names = append(names, c.Name)
	}
	X = make([][]float64, t.rows)
	for i := range X {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c.Num[i]
		}
		X[i] = row
	}
	return X, names, nil
}
