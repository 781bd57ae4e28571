package dataprep

import (
	"regexp"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
)

// Term is one weighted input of a derived column.
type Term struct {
	Column string
	Weight float64
}

// Plus and Minus build unit-weight terms.
func Plus(col string) Term  { return Term{Column: col, Weight: 1} }
func Minus(col string) Term { return Term{Column: col, Weight: -1} }

// Half is a term with weight 0.5.
func Half(col string) Term { return Term{Column: col, Weight: 0.5} }

// Derive sets column name to the weighted sum of terms plus offset, row by
// row. Every input must exist and be numerical.
func Derive(t *data.Table, name string, offset float64, terms ...Term) error {
	inputs := make([][]float64, len(terms))
	for i, term := range terms {
		vals, err := t.Numeric(term.Column)
		if err != nil {
			return err
		}
		inputs[i] = vals
	}
	out := make([]float64, t.Len())
	for r := range out {
		v := offset
		for i, term := range terms {
			v += term.Weight * inputs[i][r]
		}
		out[r] = v
	}
	return t.SetNumeric(name, out)
}

// Indicator sets column name to 1 where pred holds for src, else 0.
func Indicator(t *data.Table, name, src string, pred func(float64) bool) error {
	vals, err := t.Numeric(src)
	if err != nil {
		return err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if pred(v) {
			out[i] = 1
		}
	}
	return t.SetNumeric(name, out)
}

var titlePattern = regexp.MustCompile(` ([A-Za-z]+)\.`)

// Titles maps salutations found in passenger names onto canonical titles.
var Titles = map[string]string{
	"Mr":       "Mr",
	"Miss":     "Miss",
	"Mrs":      "Mrs",
	"Master":   "Master",
	"Dr":       "Other",
	"Rev":      "Other",
	"Col":      "Other",
	"Major":    "Other",
	"Mlle":     "Miss",
	"Countess": "Other",
	"Ms":       "Miss",
	"Lady":     "Other",
	"Jonkheer": "Other",
	"Don":      "Other",
	"Dona":     "Other",
	"Mme":      "Mrs",
	"Capt":     "Other",
	"Sir":      "Other",
}

// ExtractTitle finds the first salutation in name and maps it through
// Titles. ok is false when no token is found or it is not in Titles.
func ExtractTitle(name string) (title string, ok bool) {
	m := titlePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	title, ok = Titles[m[1]]
	return title, ok
}

// DeriveTitle adds a categorical column dst holding ExtractTitle of src.
// Unmapped names are missing.
func DeriveTitle(t *data.Table, dst, src string) error {
	names, err := t.Column(src)
	if err != nil {
		return err
	}
	vals := make([]string, t.Len())
	missing := make([]bool, t.Len())
	for i := range vals {
		if names.Missing[i] {
			missing[i] = true
			continue
		}
		var s string
		if names.Kind == data.Categorical {
			s = names.Str[i]
		}
		title, ok := ExtractTitle(s)
		vals[i], missing[i] = title, !ok
	}
	return t.Set(data.NewCategorical(dst, vals, missing))
}

// DropColumns removes the named columns; names not in t are ignored.
func DropColumns(t *data.Table, names ...string) {
	t.Drop(names...)
}
