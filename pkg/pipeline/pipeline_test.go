package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/logging"
	"github.com/EgorovM/itmo-mlops-2025/pkg/stats"
)

const passengers = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley (Florence Briggs Thayer)",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,26,0,0,STON/O2. 3101282,7.925,,S
4,1,1,"Futrelle, Mrs. Jacques Heath (Lily May Peel)",female,35,1,0,113803,53.1,C123,S
5,0,3,"Allen, Mr. William Henry",male,35,0,0,373450,8.05,,S
6,0,3,"Moran, Mr. James",male,,0,0,330877,8.4583,,Q
7,0,1,"McCarthy, Mr. Timothy J",male,54,0,0,17463,51.8625,E46,S
8,0,3,"Palsson, Master. Gosta Leonard",male,2,3,1,349909,21.075,,S
9,1,3,"Johnson, Mrs. Oscar W (Elisabeth Vilhelmina Berg)",female,27,0,2,347742,11.1333,,S
10,1,2,"Nasser, Mrs. Nicholas (Adele Achem)",female,14,1,0,237736,30.0708,,
`

const houses = `Id,MSZoning,LotArea,Street,TotalBsmtSF,1stFlrSF,2ndFlrSF,FullBath,HalfBath,BsmtFullBath,BsmtHalfBath,YrSold,YearBuilt,YearRemodAdd,OpenPorchSF,EnclosedPorch,3SsnPorch,ScreenPorch,SalePrice
1,RL,8450,Pave,856,856,854,2,1,1,0,2008,2003,2003,61,0,0,0,208500
2,RL,9600,Pave,1262,1262,0,2,0,0,1,2007,1976,1976,0,0,0,0,181500
3,RM,11250,Pave,920,920,866,2,1,1,0,2008,2001,2002,42,0,0,0,223500
4,NA,9550,Pave,756,961,756,1,0,1,0,2006,1915,1970,35,272,0,0,140000
5,RL,NA,Pave,1145,1145,1053,2,1,1,0,2008,2000,2000,84,0,0,0,250000
6,FV,14115,Grvl,796,796,566,1,1,1,0,2009,1993,1995,30,0,320,0,143000
`

func parse(t *testing.T, raw string) *data.Table {
	t.Helper()
	tab, err := data.ParseCSV(strings.NewReader(raw))
	require.NoError(t, err)
	return tab
}

// withoutLast drops the final step so unscaled values can be checked.
func withoutLast(p *Pipeline) *Pipeline {
	p.Steps = p.Steps[:len(p.Steps)-1]
	return p
}

func num(t *testing.T, tab *data.Table, name string) []float64 {
	t.Helper()
	v, err := tab.Numeric(name)
	require.NoError(t, err)
	return v
}

func TestPassengerDerivedFeatures(t *testing.T) {
	tab := parse(t, passengers)
	p := withoutLast(Passenger())
	require.NoError(t, p.Run(tab, logging.Nop()))

	// Braund, Mr. Owen Harris
	require.Equal(t, float64(p.Encoders["Title"]["Mr"]), num(t, tab, "Title")[0])
	require.Equal(t, 2.0, num(t, tab, "FamilySize")[0])
	require.Equal(t, 0.0, num(t, tab, "IsAlone")[0])

	sib, parch := num(t, tab, "SibSp"), num(t, tab, "Parch")
	fam, alone := num(t, tab, "FamilySize"), num(t, tab, "IsAlone")
	for i := range fam {
		require.Equal(t, sib[i]+parch[i]+1, fam[i])
		require.GreaterOrEqual(t, fam[i], 1.0)
		require.Equal(t, fam[i] == 1, alone[i] == 1, "row %d", i)
	}

	require.Equal(t, 27.0, num(t, tab, "Age")[5], "median of present ages")
	require.Equal(t, float64(p.Encoders["Embarked"]["S"]), num(t, tab, "Embarked")[9], "mode of Embarked")
	require.Equal(t, map[string]int{"Master": 0, "Miss": 1, "Mr": 2, "Mrs": 3}, map[string]int(p.Encoders["Title"]))
	require.Equal(t, map[string]int{"female": 0, "male": 1}, map[string]int(p.Encoders["Sex"]))
}

func TestPassengerOutput(t *testing.T) {
	tab := parse(t, passengers)
	require.NoError(t, Passenger().Run(tab, logging.Nop()))

	require.Equal(t, append(append([]string(nil), PassengerFeatures...), PassengerLabel), tab.Names())
	for _, c := range tab.Columns() {
		require.Equal(t, data.Numerical, c.Kind, c.Name)
		require.False(t, c.HasMissing(), c.Name)
	}
	for _, name := range passengerScaled {
		v := num(t, tab, name)
		require.InDelta(t, 0, stats.Mean(v), 1e-6, name)
		require.InDelta(t, 1, stats.Variance(v), 1e-6, name)
	}
	require.Equal(t, []float64{0, 1, 1, 1, 0, 0, 0, 0, 1, 1}, num(t, tab, PassengerLabel))
}

func TestPassengerUnlabelledAndUnknownTitle(t *testing.T) {
	raw := `Pclass,Name,Sex,Age,SibSp,Parch,Fare,Embarked
3,"Kelly, Mr. James",male,34.5,0,0,7.8292,Q
3,"Wilkes, Mrs. James (Ellen Needs)",female,47,1,0,7,S
2,"Myles, Mr. Thomas Francis",male,62,0,0,9.6875,Q
3,"Doe Xyz John",male,27,0,0,,S
`
	tab := parse(t, raw)
	p := Passenger()
	require.NoError(t, p.Run(tab, logging.Nop()))
	require.Equal(t, PassengerFeatures, tab.Names())
	require.Equal(t, float64(p.Encoders["Title"]["Mr"]), num(t, tab, "Title")[3])
}

func TestPassengerMissingColumnIsFatal(t *testing.T) {
	tab := parse(t, passengers)
	tab.Drop("Fare")
	err := Passenger().Run(tab, logging.Nop())
	require.ErrorIs(t, err, data.ErrColumnNotFound)
	require.Contains(t, err.Error(), `"impute"`)
}

func TestHouseDerivedTotals(t *testing.T) {
	tab := parse(t, houses)
	require.False(t, tab.Has("PoolQC"))
	require.NoError(t, withoutLast(House()).Run(tab, logging.Nop()))

	for _, name := range HouseDropped {
		require.False(t, tab.Has(name), name)
	}
	col := func(n string) []float64 { return num(t, tab, n) }
	for i := 0; i < tab.Len(); i++ {
		require.InDelta(t, col("TotalBsmtSF")[i]+col("1stFlrSF")[i]+col("2ndFlrSF")[i], col("TotalSF")[i], 1e-9)
		require.InDelta(t,
			col("FullBath")[i]+0.5*col("HalfBath")[i]+col("BsmtFullBath")[i]+0.5*col("BsmtHalfBath")[i],
			col("TotalBathrooms")[i], 1e-9)
		require.InDelta(t, col("YrSold")[i]-col("YearBuilt")[i], col("HouseAge")[i], 1e-9)
		require.InDelta(t, col("YrSold")[i]-col("YearRemodAdd")[i], col("RemodAge")[i], 1e-9)
		require.InDelta(t,
			col("OpenPorchSF")[i]+col("EnclosedPorch")[i]+col("3SsnPorch")[i]+col("ScreenPorch")[i],
			col("TotalPorchSF")[i], 1e-9)
	}
	require.Equal(t, 9600.0, col("LotArea")[4], "median of present lot areas")
}

func TestHouseOutput(t *testing.T) {
	tab := parse(t, houses)
	p := House()
	require.NoError(t, p.Run(tab, logging.Nop()))

	require.Equal(t, map[string]int{"FV": 0, "RL": 1, "RM": 2}, map[string]int(p.Encoders["MSZoning"]))
	require.Equal(t, []float64{1, 1, 2, 1, 1, 0}, num(t, tab, "MSZoning"), "codes are not scaled")

	for _, name := range tab.Schema().Of(data.Numerical) {
		if name == "MSZoning" {
			continue
		}
		v := num(t, tab, name)
		require.InDelta(t, 0, stats.Mean(v), 1e-6, name)
		if variance := stats.Variance(v); variance != 0 {
			require.InDelta(t, 1, variance, 1e-6, name)
		}
	}
	require.Empty(t, tab.Schema().Of(data.Categorical))
}

func TestHouseMissingComponentIsFatal(t *testing.T) {
	tab := parse(t, houses)
	tab.Drop("ScreenPorch")
	require.ErrorIs(t, House().Run(tab, logging.Nop()), data.ErrColumnNotFound)
}

func testConfig(dir string) config.Config {
	cfg := config.Default()
	for _, ds := range []*config.Dataset{&cfg.Titanic, &cfg.House} {
		for _, p := range []*string{&ds.RawTrain, &ds.RawTest, &ds.Train, &ds.Val, &ds.Test, &ds.Encoders, &ds.Metrics, &ds.ModelsDir} {
			*p = filepath.Join(dir, *p)
		}
	}
	cfg.ReportDir = filepath.Join(dir, cfg.ReportDir)
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProcessPassengers(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeFile(t, cfg.Titanic.RawTrain, passengers)
	require.NoError(t, ProcessPassengers(cfg, logging.Nop()))

	train, err := data.ReadCSV(cfg.Titanic.Train)
	require.NoError(t, err)
	val, err := data.ReadCSV(cfg.Titanic.Val)
	require.NoError(t, err)
	require.Equal(t, 8, train.Len())
	require.Equal(t, 2, val.Len())

	survived := num(t, val, PassengerLabel)
	require.ElementsMatch(t, []float64{0, 1}, survived)
	require.FileExists(t, cfg.Titanic.Encoders)
	require.NoFileExists(t, cfg.Titanic.Test)
}

func TestProcessHousesWithTestFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeFile(t, cfg.House.RawTrain, houses)

	var unlabelled []string
	for _, line := range strings.Split(strings.TrimSpace(houses), "\n") {
		unlabelled = append(unlabelled, line[:strings.LastIndex(line, ",")])
	}
	writeFile(t, cfg.House.RawTest, strings.Join(unlabelled, "\n")+"\n")
	require.NoError(t, ProcessHouses(cfg, logging.Nop()))

	test, err := data.ReadCSV(cfg.House.Test)
	require.NoError(t, err)
	require.Equal(t, 6, test.Len())
	require.False(t, test.Has(HouseLabel))
	require.FileExists(t, encodersPath(cfg.House.Test))

	train, err := data.ReadCSV(cfg.House.Train)
	require.NoError(t, err)
	require.Equal(t, 4, train.Len())
}
