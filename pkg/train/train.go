package train

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/EgorovM/itmo-mlops-2025/pkg/artifact"
	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/metrics"
	"github.com/EgorovM/itmo-mlops-2025/pkg/model"
)

// Result is one fitted roster entry and its validation score.
type Result[M metrics.Record] struct {
	Spec     Spec
	Model    model.Estimator
	Features []string
	Metrics  M
}

// Classify fits every classifier of roster on train and scores it on val.
func Classify(roster []Spec, train, val *data.Table, label string, log zerolog.Logger) ([]Result[metrics.Classification], error) {
	return run(Classification, roster, train, val, label, metrics.Classify, log)
}

// Regress fits every regressor of roster on train and scores it on val.
func Regress(roster []Spec, train, val *data.Table, label string, log zerolog.Logger) ([]Result[metrics.Regression], error) {
	return run(Regression, roster, train, val, label, metrics.Regress, log)
}

// xy splits t into the feature matrix and the label column.
func xy(t *data.Table, label string) ([][]float64, []float64, []string, error) {
	y, err := t.Numeric(label)
	if err != nil {
		return nil, nil, nil, err
	}
	X, names, err := t.Matrix(label)
	if err != nil {
		return nil, nil, nil, err
	}
	return X, y, names, nil
}

func run[M metrics.Record](
	task Task, roster []Spec, train, val *data.Table, label string,
	score func(name string, yTrue, yPred []float64) M, log zerolog.Logger,
) ([]Result[M], error) {
	Xtr, ytr, features, err := xy(train, label)
	if err != nil {
		return nil, errors.Wrap(err, "train set")
	}
	Xval, yval, valFeatures, err := xy(val, label)
	if err != nil {
		return nil, errors.Wrap(err, "validation set")
	}
	if len(features) != len(valFeatures) {
		return nil, errors.Wrapf(model.ErrShape, "train has %d features, validation %d", len(features), len(valFeatures))
	}
	for i := range features {
		if features[i] != valFeatures[i] {
			return nil, errors.Errorf("feature %d is %s in train but %s in validation", i, features[i], valFeatures[i])
		}
	}

	results := make([]Result[M], 0, len(roster))
	for _, spec := range roster {
		est, err := Build(spec, task)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		if err := est.Fit(Xtr, ytr); err != nil {
			return nil, errors.Wrapf(err, "fit %s", spec.Name)
		}
		pred, err := est.Predict(Xval)
		if err != nil {
			return nil, errors.Wrapf(err, "predict %s", spec.Name)
		}
		m := score(spec.Name, yval, pred)

		ev := log.Info().Str("model", spec.Name).Dur("took", time.Since(start))
		for _, v := range m.Values() {
			ev = ev.Float64(v.Metric, v.Score)
		}
		ev.Msg("trained")

		results = append(results, Result[M]{Spec: spec, Model: est, Features: features, Metrics: m})
	}
	return results, nil
}

func loadSplit(ds config.Dataset) (train, val *data.Table, err error) {
	if train, err = data.ReadCSV(ds.Train); err != nil {
		return nil, nil, err
	}
	if val, err = data.ReadCSV(ds.Val); err != nil {
		return nil, nil, err
	}
	return train, val, nil
}

// TrainPassengers fits the classification roster on the processed survival
// split, then writes every model and the metrics file.
func TrainPassengers(cfg config.Config, log zerolog.Logger) error {
	ds := cfg.Titanic
	train, val, err := loadSplit(ds)
	if err != nil {
		return err
	}
	results, err := Classify(ClassificationRoster(), train, val, ds.Label, log.With().Str("dataset", ds.Name).Logger())
	if err != nil {
		return err
	}
	return persist(ds, results, log)
}

// TrainHouses fits the regression roster on the processed house-price
// split, then writes every model and the metrics file.
func TrainHouses(cfg config.Config, log zerolog.Logger) error {
	ds := cfg.House
	train, val, err := loadSplit(ds)
	if err != nil {
		return err
	}
	results, err := Regress(RegressionRoster(), train, val, ds.Label, log.With().Str("dataset", ds.Name).Logger())
	if err != nil {
		return err
	}
	return persist(ds, results, log)
}

// persist runs only after the whole roster trained, so a failed fit leaves
// no metrics behind.
func persist[M metrics.Record](ds config.Dataset, results []Result[M], log zerolog.Logger) error {
	runID := uuid.New()
	now := time.Now().UTC()
	records := make([]M, len(results))
	for i, r := range results {
		path := ds.ModelPath(r.Spec.Name)
		b := &artifact.Bundle{
			RunID:     runID,
			Dataset:   ds.Name,
			ModelName: r.Spec.Name,
			Algorithm: r.Spec.Algorithm,
			Features:  r.Features,
			CreatedAt: now,
			Model:     r.Model,
		}
		if err := artifact.SaveModel(path, b); err != nil {
			return err
		}
		log.Info().Str("run_id", runID.String()).Str("path", path).Msg("saved model")
		records[i] = r.Metrics
	}
	if err := artifact.SaveMetrics(ds.Metrics, records); err != nil {
		return err
	}
	log.Info().Str("path", ds.Metrics).Int("models", len(records)).Msg("saved metrics")
	return nil
}
