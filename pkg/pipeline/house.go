package pipeline

import (
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/dataprep"
)

// HouseLabel is the sale-price target column.
const HouseLabel = "SalePrice"

// HouseDropped are removed before anything else. Absent ones are ignored.
var HouseDropped = []string{
	"Id", "Utilities", "Street", "PoolQC", "MiscFeature", "Alley", "Fence", "FireplaceQu",
}

// House returns the house-price transform. Categorical columns are those
// present after the drop; the scaled set is every numerical column after
// the derived totals are added, so encoded codes are left unscaled.
func House() *Pipeline {
	var categorical, numerical []string

	p := New("house")
	p.Add("drop", func(t *data.Table) error {
		dataprep.DropColumns(t, HouseDropped...)
		return nil
	})
	p.Add("impute", func(t *data.Table) error {
		s := t.Schema()
		categorical = s.Of(data.Categorical)
		return dataprep.ImputeByKind(t, s)
	})
	p.Add("derive", func(t *data.Table) error {
		derived := []struct {
			name  string
			terms []dataprep.Term
		}{
			{"TotalSF", []dataprep.Term{
				dataprep.Plus("TotalBsmtSF"), dataprep.Plus("1stFlrSF"), dataprep.Plus("2ndFlrSF"),
			}},
			{"TotalBathrooms", []dataprep.Term{
				dataprep.Plus("FullBath"), dataprep.Half("HalfBath"),
				dataprep.Plus("BsmtFullBath"), dataprep.Half("BsmtHalfBath"),
			}},
			{"HouseAge", []dataprep.Term{dataprep.Plus("YrSold"), dataprep.Minus("YearBuilt")}},
			{"RemodAge", []dataprep.Term{dataprep.Plus("YrSold"), dataprep.Minus("YearRemodAdd")}},
			{"TotalPorchSF", []dataprep.Term{
				dataprep.Plus("OpenPorchSF"), dataprep.Plus("EnclosedPorch"),
				dataprep.Plus("3SsnPorch"), dataprep.Plus("ScreenPorch"),
			}},
		}
		for _, d := range derived {
			if err := dataprep.Derive(t, d.name, 0, d.terms...); err != nil {
				return err
			}
		}
		numerical = t.Schema().Of(data.Numerical)
		return nil
	})
	p.Add("encode", func(t *data.Table) error {
		return dataprep.EncodeColumns(t, categorical, p.Encoders)
	})
	p.Add("scale", func(t *data.Table) error {
		return dataprep.StandardScale(t, numerical)
	})
	return p
}
