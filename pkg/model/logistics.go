package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LogisticRegression is a binary L2-regularized logistic model with an
// unpenalized intercept, fitted with L-BFGS.
type LogisticRegression struct {
	C       float64 // inverse regularization strength
	MaxIter int
	Tol     float64

	W []float64 // weights
	B float64   // bias
}

// LogisticOption functional config for LogisticRegression
type LogisticOption func(*LogisticRegression)

func WithC(c float64) LogisticOption {
	return func(m *LogisticRegression) { m.C = c }
}
func WithMaxIter(n int) LogisticOption {
	return func(m *LogisticRegression) { m.MaxIter = n }
}
func WithTol(tol float64) LogisticOption {
	return func(m *LogisticRegression) { m.Tol = tol }
}

// NewLogisticRegression returns a model with C=1, 100 iterations, tol 1e-4.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{C: 1, MaxIter: 100, Tol: 1e-4}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Fit minimizes sum(logloss) + ||W||^2 / (2C). Parameters are laid out as
// [W..., B] for the optimizer.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if err := checkBinary(y); err != nil {
		return err
	}
	if m.C <= 0 {
		return errors.New("logistic: C must be positive")
	}
	p := len(X[0])
	z := make([]float64, len(X))

	scores := func(params []float64) {
		w, b := params[:p], params[p]
		for i, row := range X {
			z[i] = floats.Dot(w, row) + b
		}
	}
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			scores(params)
			w := params[:p]
			return LogLoss(y, z)*float64(len(y)) + floats.Dot(w, w)/(2*m.C)
		},
		Grad: func(grad, params []float64) {
			scores(params)
			for j := range grad {
				grad[j] = 0
			}
			for i, row := range X {
				d := Sigmoid(z[i]) - y[i]
				floats.AddScaled(grad[:p], d, row)
				grad[p] += d
			}
			floats.AddScaled(grad[:p], 1/m.C, params[:p])
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: m.Tol,
	}
	res, err := optimize.Minimize(problem, make([]float64, p+1), settings, &optimize.LBFGS{})
	// Hitting the iteration limit or a line-search stall near the optimum
	// still leaves a usable location.
	if res == nil || !finite(res.X) {
		if err == nil {
			err = errors.New("no finite solution")
		}
		return errors.Wrap(err, "logistic: lbfgs")
	}
	m.W = append([]float64(nil), res.X[:p]...)
	m.B = res.X[p]
	return nil
}

// PredictProba returns P(y=1) for each row.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if m.W == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, ErrShape
		}
		out[i] = Sigmoid(floats.Dot(m.W, row) + m.B)
	}
	return out, nil
}

// Predict returns the class labels (0 or 1) based on a 0.5 probability threshold.
func (m *LogisticRegression) Predict(X [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, p := range proba {
		if p > 0.5 {
			proba[i] = 1
		} else {
			proba[i] = 0
		}
	}
	return proba, nil
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
