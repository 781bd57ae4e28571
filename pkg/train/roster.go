// Package train fits the fixed estimator rosters and scores them on the
// validation split.
package train

import (
	"github.com/pkg/errors"

	"github.com/EgorovM/itmo-mlops-2025/pkg/model"
)

// Task is the kind of target an estimator predicts.
type Task int

const (
	Classification Task = iota
	Regression
)

func (t Task) String() string {
	if t == Regression {
		return "regression"
	}
	return "classification"
}

// Algorithm tags.
const (
	RandomForest       = "random_forest"
	GradientBoosting   = "gradient_boosting"
	LogisticRegression = "logistic_regression"
	ElasticNet         = "elastic_net"
)

// Params are the hyperparameters an algorithm may read. Zero values keep
// the estimator's defaults.
type Params struct {
	NEstimators  int
	MaxDepth     int
	LearningRate float64
	MaxIter      int
	Alpha        float64
	L1Ratio      float64
	Seed         int64
}

// Spec names one configured estimator.
type Spec struct {
	Name      string
	Algorithm string
	Params    Params
}

// Seed is the random state every roster entry uses.
const Seed = 42

// ClassificationRoster is the survival roster, in reporting order.
func ClassificationRoster() []Spec {
	return []Spec{
		{Name: "random_forest", Algorithm: RandomForest, Params: Params{NEstimators: 100, MaxDepth: 5, Seed: Seed}},
		{Name: "gradient_boosting", Algorithm: GradientBoosting, Params: Params{NEstimators: 100, LearningRate: 0.1, MaxDepth: 3, Seed: Seed}},
		{Name: "logistic_regression", Algorithm: LogisticRegression, Params: Params{MaxIter: 1000, Seed: Seed}},
	}
}

// RegressionRoster is the house-price roster, in reporting order.
func RegressionRoster() []Spec {
	return []Spec{
		{Name: "random_forest", Algorithm: RandomForest, Params: Params{NEstimators: 100, MaxDepth: 10, Seed: Seed}},
		{Name: "gradient_boosting", Algorithm: GradientBoosting, Params: Params{NEstimators: 100, LearningRate: 0.1, MaxDepth: 5, Seed: Seed}},
		{Name: "elastic_net", Algorithm: ElasticNet, Params: Params{Alpha: 1.0, L1Ratio: 0.5, Seed: Seed}},
	}
}

// Build returns an unfitted estimator for spec.
func Build(spec Spec, task Task) (model.Estimator, error) {
	p := spec.Params
	switch spec.Algorithm {
	case RandomForest:
		opts := []model.RandomForestOption{model.WithForestRandomState(p.Seed)}
		if p.NEstimators > 0 {
			opts = append(opts, model.WithNEstimators(p.NEstimators))
		}
		if p.MaxDepth > 0 {
			opts = append(opts, model.WithForestMaxDepth(p.MaxDepth))
		}
		if task == Regression {
			return model.NewRandomForestRegressor(opts...), nil
		}
		return model.NewRandomForestClassifier(opts...), nil

	case GradientBoosting:
		opts := []model.BoostingOption{model.WithBoostingRandomState(p.Seed)}
		if p.NEstimators > 0 {
			opts = append(opts, model.WithStages(p.NEstimators))
		}
		if p.LearningRate > 0 {
			opts = append(opts, model.WithLearningRate(p.LearningRate))
		}
		if p.MaxDepth > 0 {
			opts = append(opts, model.WithBoostingMaxDepth(p.MaxDepth))
		}
		if task == Regression {
			return model.NewGradientBoostingRegressor(opts...), nil
		}
		return model.NewGradientBoostingClassifier(opts...), nil

	case LogisticRegression:
		if task != Classification {
			return nil, errors.Errorf("%s: %s cannot do %s", spec.Name, spec.Algorithm, task)
		}
		var opts []model.LogisticOption
		if p.MaxIter > 0 {
			opts = append(opts, model.WithMaxIter(p.MaxIter))
		}
		return model.NewLogisticRegression(opts...), nil

	case ElasticNet:
		if task != Regression {
			return nil, errors.Errorf("%s: %s cannot do %s", spec.Name, spec.Algorithm, task)
		}
		m := model.NewElasticNet(p.Alpha, p.L1Ratio)
		if p.MaxIter > 0 {
			m.MaxIter = p.MaxIter
		}
		return m, nil
	}
	return nil, errors.Errorf("%s: unknown algorithm %q", spec.Name, spec.Algorithm)
}
