package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EgorovM/itmo-mlops-2025/pkg/artifact"
	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/report"
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

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCommands(t *testing.T) {
	var names []string
	for _, cmd := range newRoot().Subcommands {
		names = append(names, cmd.Name())
		require.NotNil(t, cmd.Run, cmd.Name())
		require.NotNil(t, cmd.Flag.Lookup("config"), cmd.Name())
	}
	require.Equal(t, []string{
		"process-titanic", "process-house", "train-titanic", "train-house", "compare", "all",
	}, names)
	require.Equal(t, "all", allCmd().Name())
}

func TestBadConfigIsAnError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	err := newRoot().Dispatch(context.Background(), []string{"process-titanic", "-config", missing})
	require.Error(t, err)
}

func TestAllStages(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	writeFile(t, filepath.Join(dir, cfg.Titanic.RawTrain), passengers)
	writeFile(t, filepath.Join(dir, cfg.House.RawTrain), houses)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, newRoot().Dispatch(context.Background(), []string{"all"}))

	titanic, err := artifact.LoadClassification(cfg.Titanic.Metrics)
	require.NoError(t, err)
	require.Len(t, titanic, 3)
	house, err := artifact.LoadRegression(cfg.House.Metrics)
	require.NoError(t, err)
	require.Len(t, house, 3)

	require.FileExists(t, cfg.House.ModelPath("elastic_net"))
	require.FileExists(t, filepath.Join(cfg.ReportDir, report.FileName))
	require.FileExists(t, report.ChartPath(cfg.ReportDir, "Titanic", "f1"))
}
