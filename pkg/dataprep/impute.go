package dataprep

import (
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/stats"
)

// ImputeMedian replaces missing numerical cells with the column median.
// A column with no present value is left as is.
func ImputeMedian(col *data.Column) error {
	if col.Kind != data.Numerical {
		return errNotNumeric(col)
	}
	present := col.Present()
	if len(present) == 0 {
		return nil
	}
	fill(col, stats.Median(present), "")
	return nil
}

// ImputeMode replaces missing cells with the most frequent present value.
// Ties go to the smallest value.
func ImputeMode(col *data.Column) error {
	if col.Kind == data.Numerical {
		present := col.Present()
		if len(present) == 0 {
			return nil
		}
		fill(col, stats.Mode(present), "")
		return nil
	}
	var present []string
	for i, v := range col.Str {
		if !col.Missing[i] {
			present = append(present, v)
		}
	}
	if mode, ok := stats.ModeString(present); ok {
		fill(col, 0, mode)
	}
	return nil
}

// ImputeConstant replaces missing categorical cells with constant.
func ImputeConstant(col *data.Column, constant string) {
	fill(col, 0, constant)
}

func fill(col *data.Column, num float64, str string) {
	for i, m := range col.Missing {
		if !m {
			continue
		}
		if col.Kind == data.Numerical {
			col.Num[i] = num
		} else {
			col.Str[i] = str
		}
		col.Missing[i] = false
	}
}

// ImputeByKind imputes every column: median for numerical, mode for
// categorical.
func ImputeByKind(t *data.Table, s data.Schema) error {
	for i, name := range s.FeatureNames {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		if s.Kinds[i] == data.Numerical {
			err = ImputeMedian(col)
		} else {
			err = ImputeMode(col)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
