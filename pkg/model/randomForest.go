package model

import (
	"math/rand"
	"sync"
)

// RandomForest is a bagged ensemble of CART trees. With Gini it classifies
// by averaging class probabilities; with Variance it regresses by averaging.
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	Criterion       Criterion

	// Internal state
	Classes []float64
	Trees   []*Tree
}

// RandomForestOption functional config for RandomForest
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.NEstimators = n }
}
func WithBootstrap(b bool) RandomForestOption {
	return func(rf *RandomForest) { rf.Bootstrap = b }
}
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

func newRandomForest(c Criterion, maxFeatures int, opts []RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MaxFeatures:     maxFeatures,
		Bootstrap:       true,
		Criterion:       c,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// NewRandomForestClassifier considers sqrt(p) features per split.
func NewRandomForestClassifier(opts ...RandomForestOption) *RandomForest {
	return newRandomForest(Gini, MaxFeaturesSqrt, opts)
}

// NewRandomForestRegressor considers every feature per split.
func NewRandomForestRegressor(opts ...RandomForestOption) *RandomForest {
	return newRandomForest(Variance, 0, opts)
}

// Fit trains the trees concurrently, one goroutine per tree. Each tree
// draws its bootstrap sample as row indices from its own seeded source, so
// the result does not depend on scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	n := len(X)
	rf.Classes = nil
	if rf.Criterion == Gini {
		rf.Classes = uniqueSorted(y)
	}

	rf.Trees = make([]*Tree, rf.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, rf.NEstimators)

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			sampleIndices := make([]int, n)
			for j := range sampleIndices {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewTree(
				WithCriterion(rf.Criterion),
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(seed),
			)
			if err := tree.fitIndices(X, y, sampleIndices, rf.Classes); err != nil {
				errCh <- err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return err
	}
	return nil
}

// Predict returns the class with the highest mean probability, or the mean
// of the tree outputs for regression.
func (rf *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	if rf.Criterion != Gini {
		for _, t := range rf.Trees {
			pred, err := t.Predict(X)
			if err != nil {
				return nil, err
			}
			for i, v := range pred {
				out[i] += v / float64(len(rf.Trees))
			}
		}
		return out, nil
	}
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, p := range proba {
		out[i] = rf.Classes[argmax(p)]
	}
	return out, nil
}

// PredictProba averages the per-class probabilities of all trees.
func (rf *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if len(rf.Trees) == 0 || rf.Criterion != Gini {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(rf.Classes))
	}
	for _, t := range rf.Trees {
		proba, err := t.PredictProba(X)
		if err != nil {
			return nil, err
		}
		for i, p := range proba {
			for c, v := range p {
				out[i][c] += v / float64(len(rf.Trees))
			}
		}
	}
	return out, nil
}
