package model

import (
	"math"

	"github.com/pkg/errors"
)

// Loss selects the gradient boosting objective.
type Loss int

const (
	SquaredError Loss = iota // regression
	LogLossLoss              // binary classification
)

// GradientBoosting fits shallow MSE trees to the negative gradient of Loss,
// stage by stage.
type GradientBoosting struct {
	NEstimators  int
	LearningRate float64
	MaxDepth     int
	RandomState  int64
	Loss         Loss

	Init  float64 // prior score: target mean or log-odds
	Trees []*Tree
}

// BoostingOption functional config for GradientBoosting
type BoostingOption func(*GradientBoosting)

func WithStages(n int) BoostingOption {
	return func(g *GradientBoosting) { g.NEstimators = n }
}
func WithLearningRate(lr float64) BoostingOption {
	return func(g *GradientBoosting) { g.LearningRate = lr }
}
func WithBoostingMaxDepth(d int) BoostingOption {
	return func(g *GradientBoosting) { g.MaxDepth = d }
}
func WithBoostingRandomState(seed int64) BoostingOption {
	return func(g *GradientBoosting) { g.RandomState = seed }
}

func newGradientBoosting(loss Loss, opts []BoostingOption) *GradientBoosting {
	g := &GradientBoosting{NEstimators: 100, LearningRate: 0.1, MaxDepth: 3, Loss: loss}
	for _, o := range opts {
		o(g)
	}
	return g
}

// NewGradientBoostingClassifier boosts on the binomial deviance; labels are 0/1.
func NewGradientBoostingClassifier(opts ...BoostingOption) *GradientBoosting {
	return newGradientBoosting(LogLossLoss, opts)
}

// NewGradientBoostingRegressor boosts on squared error.
func NewGradientBoostingRegressor(opts ...BoostingOption) *GradientBoosting {
	return newGradientBoosting(SquaredError, opts)
}

func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n := len(X)
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	switch g.Loss {
	case SquaredError:
		g.Init = mean
	case LogLossLoss:
		if err := checkBinary(y); err != nil {
			return err
		}
		if mean == 0 || mean == 1 {
			return errors.Wrap(ErrLabels, "gradient boosting needs both classes")
		}
		g.Init = math.Log(mean / (1 - mean))
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	score := make([]float64, n)
	for i := range score {
		score[i] = g.Init
	}
	residual := make([]float64, n)

	g.Trees = make([]*Tree, 0, g.NEstimators)
	for m := 0; m < g.NEstimators; m++ {
		for i := range residual {
			if g.Loss == LogLossLoss {
				residual[i] = y[i] - Sigmoid(score[i])
			} else {
				residual[i] = y[i] - score[i]
			}
		}
		tree := NewTree(
			WithCriterion(Variance),
			WithMaxDepth(g.MaxDepth),
			WithRandomState(g.RandomState+int64(m)),
		)
		if err := tree.fitIndices(X, residual, idx, nil); err != nil {
			return errors.Wrapf(err, "boosting stage %d", m)
		}
		if g.Loss == LogLossLoss {
			g.newtonLeaves(tree, X, residual, score)
		}
		for i, x := range X {
			score[i] += g.LearningRate * tree.leaf(x).Value
		}
		g.Trees = append(g.Trees, tree)
	}
	return nil
}

// newtonLeaves replaces each leaf mean with one Newton step of the binomial
// deviance: sum(residual) / sum(p*(1-p)) over the rows in the leaf.
func (g *GradientBoosting) newtonLeaves(tree *Tree, X [][]float64, residual, score []float64) {
	type acc struct{ num, den float64 }
	sums := map[*Node]*acc{}
	for i, x := range X {
		leaf := tree.leaf(x)
		a, ok := sums[leaf]
		if !ok {
			a = &acc{}
			sums[leaf] = a
		}
		p := Sigmoid(score[i])
		a.num += residual[i]
		a.den += p * (1 - p)
	}
	for leaf, a := range sums {
		if a.den < 1e-150 {
			leaf.Value = 0
		} else {
			leaf.Value = a.num / a.den
		}
	}
}

// DecisionFunction returns the raw additive score of each row.
func (g *GradientBoosting) DecisionFunction(X [][]float64) ([]float64, error) {
	if len(g.Trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != g.Trees[0].NFeatures {
			return nil, ErrShape
		}
		s := g.Init
		for _, t := range g.Trees {
			s += g.LearningRate * t.leaf(x).Value
		}
		out[i] = s
	}
	return out, nil
}

// Predict returns regression values, or 1 where P(y=1) > 0.5.
func (g *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	score, err := g.DecisionFunction(X)
	if err != nil || g.Loss == SquaredError {
		return score, err
	}
	for i, s := range score {
		if s > 0 {
			score[i] = 1
		} else {
			score[i] = 0
		}
	}
	return score, nil
}
