package pipeline

import (
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/dataprep"
)

// PassengerLabel is the survival target column.
const PassengerLabel = "Survived"

// PassengerFeatures are the columns kept by Passenger, in output order.
var PassengerFeatures = []string{
	"Pclass", "Sex", "Age", "SibSp", "Parch", "Fare",
	"Embarked", "Title", "FamilySize", "IsAlone",
}

var passengerScaled = []string{"Age", "Fare", "FamilySize"}

// Passenger returns the survival-dataset transform.
func Passenger() *Pipeline {
	p := New("passenger")
	p.Add("impute", func(t *data.Table) error {
		if err := each(t, []string{"Age", "Fare"}, dataprep.ImputeMedian); err != nil {
			return err
		}
		return each(t, []string{"Embarked"}, dataprep.ImputeMode)
	})
	p.Add("title", func(t *data.Table) error {
		if err := dataprep.DeriveTitle(t, "Title", "Name"); err != nil {
			return err
		}
		// unmapped salutations must not reach encoding
		return each(t, []string{"Title"}, dataprep.ImputeMode)
	})
	p.Add("family_size", func(t *data.Table) error {
		return dataprep.Derive(t, "FamilySize", 1, dataprep.Plus("SibSp"), dataprep.Plus("Parch"))
	})
	p.Add("is_alone", func(t *data.Table) error {
		return dataprep.Indicator(t, "IsAlone", "FamilySize", func(v float64) bool { return v == 1 })
	})
	p.Add("encode", func(t *data.Table) error {
		return dataprep.EncodeColumns(t, []string{"Sex", "Embarked", "Title"}, p.Encoders)
	})
	p.Add("select", func(t *data.Table) error {
		keep := append([]string(nil), PassengerFeatures...)
		if t.Has(PassengerLabel) {
			keep = append(keep, PassengerLabel)
		}
		return t.Select(keep...)
	})
	p.Add("scale", func(t *data.Table) error {
		return dataprep.StandardScale(t, passengerScaled)
	})
	return p
}
