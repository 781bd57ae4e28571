package dataprep

import (
	"github.com/pkg/errors"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/stats"
)

// StandardScale standardizes the named numerical columns over the whole
// table. It fails on a missing cell rather than scaling around it.
func StandardScale(t *data.Table, names []string) error {
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		if col.Kind != data.Numerical {
			return errNotNumeric(col)
		}
		if col.HasMissing() {
			return errors.Wrap(ErrMissingValue, name)
		}
		col.Num = stats.NewStandardScaler().FitTransform(col.Num)
	}
	return nil
}
