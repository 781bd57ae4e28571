package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/stats"
)

func nan() float64 { return math.NaN() }

func TestImputeMedianAndMode(t *testing.T) {
	age := data.NewNumeric("Age", []float64{22, nan(), 38, 26, nan()})
	require.NoError(t, ImputeMedian(age))
	require.False(t, age.HasMissing())
	require.Equal(t, []float64{22, 26, 38, 26, 26}, age.Num)

	emb := data.NewCategorical("Embarked", []string{"S", "", "C", "S", ""}, []bool{false, true, false, false, true})
	require.NoError(t, ImputeMode(emb))
	require.False(t, emb.HasMissing())
	require.Equal(t, []string{"S", "S", "C", "S", "S"}, emb.Str)

	require.ErrorIs(t, ImputeMedian(emb), ErrNotNumeric)
}

func TestImputeAllMissingPropagates(t *testing.T) {
	col := data.NewNumeric("x", []float64{nan(), nan()})
	require.NoError(t, ImputeMedian(col))
	require.True(t, col.HasMissing())

	cat := data.NewCategorical("c", []string{"", ""}, []bool{true, true})
	require.NoError(t, ImputeMode(cat))
	require.True(t, cat.HasMissing())
}

func TestImputeByKind(t *testing.T) {
	tab, err := data.NewTable(
		data.NewNumeric("LotFrontage", []float64{60, nan(), 80}),
		data.NewCategorical("MasVnrType", []string{"", "BrkFace", "BrkFace"}, []bool{true, false, false}),
	)
	require.NoError(t, err)
	require.NoError(t, ImputeByKind(tab, tab.Schema()))
	for _, c := range tab.Columns() {
		require.False(t, c.HasMissing(), c.Name)
	}
}

func TestLabelEncodeSorted(t *testing.T) {
	col := data.NewCategorical("Sex", []string{"male", "female", "male"}, nil)
	enc, err := LabelEncode(col)
	require.NoError(t, err)
	require.Equal(t, Encoder{"female": 0, "male": 1}, enc)
	require.Equal(t, data.Numerical, col.Kind)
	require.Equal(t, []float64{1, 0, 1}, col.Num)
	require.Nil(t, col.Str)

	_, err = LabelEncode(col)
	require.Error(t, err)

	gap := data.NewCategorical("Title", []string{"Mr", ""}, []bool{false, true})
	_, err = LabelEncode(gap)
	require.ErrorIs(t, err, ErrMissingValue)
}

func TestStandardScale(t *testing.T) {
	tab, err := data.NewTable(data.NewNumeric("Fare", []float64{7.25, 71.28, 8.05, 53.1}))
	require.NoError(t, err)
	require.NoError(t, StandardScale(tab, []string{"Fare"}))
	fare, err := tab.Numeric("Fare")
	require.NoError(t, err)
	require.InDelta(t, 0, stats.Mean(fare), 1e-6)
	require.InDelta(t, 1, stats.Variance(fare), 1e-6)

	require.ErrorIs(t, StandardScale(tab, []string{"Cabin"}), data.ErrColumnNotFound)
}

func TestDerive(t *testing.T) {
	tab, err := data.NewTable(
		data.NewNumeric("FullBath", []float64{2, 1}),
		data.NewNumeric("HalfBath", []float64{1, 0}),
	)
	require.NoError(t, err)
	require.NoError(t, Derive(tab, "Baths", 0, Plus("FullBath"), Half("HalfBath")))
	baths, err := tab.Numeric("Baths")
	require.NoError(t, err)
	require.Equal(t, []float64{2.5, 1}, baths)

	require.NoError(t, Derive(tab, "Diff", 1, Plus("FullBath"), Minus("HalfBath")))
	diff, _ := tab.Numeric("Diff")
	require.Equal(t, []float64{2, 2}, diff)

	require.ErrorIs(t, Derive(tab, "Bad", 0, Plus("Absent")), data.ErrColumnNotFound)

	require.NoError(t, Indicator(tab, "Single", "FullBath", func(v float64) bool { return v == 1 }))
	single, _ := tab.Numeric("Single")
	require.Equal(t, []float64{0, 1}, single)
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		ok    bool
	}{
		{"Braund, Mr. Owen Harris", "Mr", true},
		{"Cumings, Mrs. John Bradley (Florence Briggs Thayer)", "Mrs", true},
		{"Oliva y Ocana, Dona. Fermina", "Other", true},
		{"Aubart, Mme. Leontine Pauline", "Mrs", true},
		{"Someone, Prof. Unknown", "", false},
		{"No salutation here", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractTitle(c.name)
		require.Equal(t, c.ok, ok, c.name)
		require.Equal(t, c.title, got, c.name)
	}
}

func TestDeriveTitleMarksUnknownMissing(t *testing.T) {
	tab, err := data.NewTable(data.NewCategorical("Name", []string{"Braund, Mr. Owen", "X, Prof. Y"}, nil))
	require.NoError(t, err)
	require.NoError(t, DeriveTitle(tab, "Title", "Name"))
	title, err := tab.Column("Title")
	require.NoError(t, err)
	require.Equal(t, data.Categorical, title.Kind)
	require.Equal(t, []bool{false, true}, title.Missing)
	require.Equal(t, "Mr", title.Str[0])
}

func TestImputeConstant(t *testing.T) {
	cabin := data.NewCategorical("Cabin", []string{"", "C85", ""}, []bool{true, false, true})
	ImputeConstant(cabin, "Unknown")
	require.False(t, cabin.HasMissing())
	require.Equal(t, []string{"Unknown", "C85", "Unknown"}, cabin.Str)
}
