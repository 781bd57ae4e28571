package dataprep

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
)

var (
	ErrMissingValue = errors.New("missing value reached encoding")
	ErrNotNumeric   = errors.New("column is not numerical")
)

func errNotNumeric(col *data.Column) error { return errors.Wrap(ErrNotNumeric, col.Name) }

// Encoder is the value→code mapping fitted for one column.
type Encoder map[string]int

// Encoders holds the fitted encoders of one run, by column.
type Encoders map[string]Encoder

// LabelEncode replaces the text values of a categorical column with integer
// codes. Codes follow the sorted order of the distinct values, so the
// mapping is a deterministic bijection for a given column content. The
// column becomes numerical.
func LabelEncode(col *data.Column) (Encoder, error) {
	if col.Kind != data.Categorical {
		return nil, errors.Errorf("%s: label encoding needs a categorical column", col.Name)
	}
	if col.HasMissing() {
		return nil, errors.Wrap(ErrMissingValue, col.Name)
	}
	var classes []string
	enc := Encoder{}
	for _, v := range col.Str {
		if _, ok := enc[v]; !ok {
			enc[v] = 0
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	for i, v := range classes {
		enc[v] = i
	}

	col.Num = make([]float64, len(col.Str))
	for i, v := range col.Str {
		col.Num[i] = float64(enc[v])
	}
	col.Str = nil
	col.Kind = data.Numerical
	return enc, nil
}

// EncodeColumns label-encodes each named column independently.
func EncodeColumns(t *data.Table, names []string, into Encoders) error {
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		enc, err := LabelEncode(col)
		if err != nil {
			return err
		}
		into[name] = enc
	}
	return nil
}
