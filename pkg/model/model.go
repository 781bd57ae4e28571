package model

import (
	"encoding/gob"

	"github.com/pkg/errors"
)

var (
	ErrEmptyInput = errors.New("model: empty input")
	ErrShape      = errors.New("model: X and y shapes do not match")
	ErrNotFitted  = errors.New("model: not fitted")
	ErrLabels     = errors.New("model: binary labels must be 0 or 1")
)

// Estimator is a supervised learner. Classifiers take and return labels as
// float64 values.
type Estimator interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
}

func init() {
	gob.Register(&Tree{})
	gob.Register(&RandomForest{})
	gob.Register(&GradientBoosting{})
	gob.Register(&LogisticRegression{})
	gob.Register(&ElasticNet{})
}

func checkXY(X [][]float64, y []float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return ErrEmptyInput
	}
	if len(y) != len(X) {
		return errors.Wrapf(ErrShape, "%d rows, %d labels", len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.Wrapf(ErrShape, "row %d has %d features, want %d", i, len(X[i]), p)
		}
	}
	return nil
}

func checkBinary(y []float64) error {
	for _, v := range y {
		if v != 0 && v != 1 {
			return errors.Wrapf(ErrLabels, "got %v", v)
		}
	}
	return nil
}
