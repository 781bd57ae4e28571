package report

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/EgorovM/itmo-mlops-2025/pkg/artifact"
	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/metrics"
)

// FileName is the Markdown report written by Compare.
const FileName = "model_comparison.md"

var reportTmpl = template.Must(template.New("report").Parse(`# Model Comparison Report

## Titanic Dataset Results

### Classification Metrics

| Model | Accuracy | Precision | Recall | F1 Score |
|-------|----------|-----------|--------|----------|
{{- range .Titanic}}
| {{.ModelName}} | {{printf "%.3f" .Accuracy}} | {{printf "%.3f" .Precision}} | {{printf "%.3f" .Recall}} | {{printf "%.3f" .F1}} |
{{- end}}

## House Price Dataset Results

### Regression Metrics

| Model | MSE | RMSE | MAE | R² Score |
|-------|-----|------|-----|----------|
{{- range .House}}
| {{.ModelName}} | {{printf "%.4f" .MSE}} | {{printf "%.4f" .RMSE}} | {{printf "%.4f" .MAE}} | {{printf "%.3f" .R2}} |
{{- end}}

## Analysis

### Titanic Dataset

The classification models were evaluated on accuracy, precision, recall and F1 score.

- Best performing model: **{{.BestTitanic.ModelName}}** with F1 score of {{printf "%.3f" .BestTitanic.F1}}

### House Price Dataset

The regression models were evaluated on MSE, RMSE, MAE and R² score.

- Best performing model: **{{.BestHouse.ModelName}}** with R² score of {{printf "%.3f" .BestHouse.R2}}
`))

// best returns the record with the highest key; ties keep the earliest.
func best[T any](records []T, key func(T) float64) (T, bool) {
	var zero T
	if len(records) == 0 {
		return zero, false
	}
	top := records[0]
	for _, r := range records[1:] {
		if key(r) > key(top) {
			top = r
		}
	}
	return top, true
}

// BestClassifier picks the highest F1.
func BestClassifier(records []metrics.Classification) (metrics.Classification, bool) {
	return best(records, func(c metrics.Classification) float64 { return c.F1 })
}

// BestRegressor picks the highest R².
func BestRegressor(records []metrics.Regression) (metrics.Regression, bool) {
	return best(records, func(r metrics.Regression) float64 { return r.R2 })
}

// Markdown renders the comparison report of both datasets.
func Markdown(titanic []metrics.Classification, house []metrics.Regression) (string, error) {
	bt, ok := BestClassifier(titanic)
	if !ok {
		return "", errors.Wrap(ErrNoRecords, "titanic")
	}
	bh, ok := BestRegressor(house)
	if !ok {
		return "", errors.Wrap(ErrNoRecords, "house")
	}

	var sb strings.Builder
	err := reportTmpl.Execute(&sb, struct {
		Titanic     []metrics.Classification
		House       []metrics.Regression
		BestTitanic metrics.Classification
		BestHouse   metrics.Regression
	}{titanic, house, bt, bh})
	if err != nil {
		return "", errors.Wrap(err, "render report")
	}
	return sb.String(), nil
}

// Compare loads both metrics files and writes the charts and the report
// into cfg.ReportDir.
func Compare(cfg config.Config, log zerolog.Logger) error {
	titanic, err := artifact.LoadClassification(cfg.Titanic.Metrics)
	if err != nil {
		return err
	}
	house, err := artifact.LoadRegression(cfg.House.Metrics)
	if err != nil {
		return err
	}

	md, err := Markdown(titanic, house)
	if err != nil {
		return err
	}

	for _, set := range []struct {
		name    string
		records []metrics.Record
	}{
		{"Titanic", metrics.Records(titanic)},
		{"House", metrics.Records(house)},
	} {
		paths, err := Charts(set.name, set.records, cfg.ReportDir)
		if err != nil {
			return err
		}
		log.Info().Str("dataset", set.name).Strs("charts", paths).Msg("rendered")
	}

	path := filepath.Join(cfg.ReportDir, FileName)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return errors.Wrap(err, "write report")
	}
	log.Info().Str("path", path).Msg("wrote report")
	return nil
}
