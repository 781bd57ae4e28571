package data

// Kind is the storage kind of a column. It decides which imputation,
// encoding and scaling rule applies.
type Kind int

const (
	Numerical Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numerical:
		return "numerical"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// Schema describes the structure of a table at one point in time.
type Schema struct {
	FeatureNames []string
	Kinds        []Kind
}

// Schema classifies the current columns. It is computed on every call so it
// always reflects the latest structural edit.
func (t *Table) Schema() Schema {
	s := Schema{FeatureNames: make([]string, len(t.cols)), Kinds: make([]Kind, len(t.cols))}
	for i, c := range t.cols {
		s.FeatureNames[i] = c.Name
		s.Kinds[i] = c.Kind
	}
	return s
}

// Of returns the names of columns with kind k, in table order.
func (s Schema) Of(k Kind) []string {
	var out []string
	for i, kk := range s.Kinds {
		if kk == k {
			out = append(out, s.FeatureNames[i])
		}
	}
	return out
}
