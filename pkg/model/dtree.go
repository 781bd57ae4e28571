package model

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Criterion is the impurity a tree minimizes.
type Criterion int

const (
	// Gini impurity, for classification.
	Gini Criterion = iota
	// Variance around the node mean, for regression.
	Variance
)

// MaxFeaturesSqrt asks for round-down sqrt(p) candidate features per split.
const MaxFeaturesSqrt = -1

// Node is a tree node. Fields are exported for gob.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x <= Threshold goes left
	Left      *Node
	Right     *Node

	N      int
	Value  float64   // mean target (Variance) or leaf output set by boosting
	Probas []float64 // class distribution aligned with Tree.Classes (Gini)
}

// Tree is a CART tree for classification (Gini) or regression (Variance).
type Tree struct {
	Criterion       Criterion
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => all, MaxFeaturesSqrt => sqrt(p)
	RandomState     int64

	Classes   []float64
	NFeatures int
	Root      *Node
}

// Option functional config
type Option func(*Tree)

func WithCriterion(c Criterion) Option {
	return func(t *Tree) { t.Criterion = c }
}
func WithMaxDepth(d int) Option {
	return func(t *Tree) { t.MaxDepth = d }
}
func WithMinSamplesSplit(n int) Option {
	return func(t *Tree) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *Tree) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) Option {
	return func(t *Tree) { t.MaxFeatures = k }
}
func WithRandomState(seed int64) Option {
	return func(t *Tree) { t.RandomState = seed }
}

// NewTree returns a Gini tree with the usual defaults.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		Criterion:       Gini,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on every row of X.
func (t *Tree) Fit(X [][]float64, y []float64) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	var classes []float64
	if t.Criterion == Gini {
		classes = uniqueSorted(y)
	}
	return t.fitIndices(X, y, idx, classes)
}

// fitIndices grows the tree on the rows listed in idx, which may repeat
// (bootstrap). classes fixes the class order for Gini trees so that trees
// of one forest agree even when a sample misses a class.
func (t *Tree) fitIndices(X [][]float64, y []float64, idx []int, classes []float64) error {
	if len(idx) == 0 {
		return ErrEmptyInput
	}
	t.NFeatures = len(X[0])
	b := &builder{
		tree: t,
		X:    X,
		y:    y,
		rnd:  rand.New(rand.NewSource(t.RandomState)),
	}
	if t.Criterion == Gini {
		t.Classes = classes
		b.class = make(map[float64]int, len(classes))
		for i, c := range classes {
			b.class[c] = i
		}
		for _, i := range idx {
			if _, ok := b.class[y[i]]; !ok {
				return errors.Errorf("tree: label %v not among classes %v", y[i], classes)
			}
		}
	}
	b.nFeat = t.NFeatures
	switch {
	case t.MaxFeatures == MaxFeaturesSqrt:
		b.nFeat = max(1, int(math.Sqrt(float64(t.NFeatures))))
	case t.MaxFeatures > 0 && t.MaxFeatures < t.NFeatures:
		b.nFeat = t.MaxFeatures
	}
	t.Root = b.build(idx, 0)
	return nil
}

// Predict returns class labels (Gini) or node means (Variance).
func (t *Tree) Predict(X [][]float64) ([]float64, error) {
	if t.Root == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != t.NFeatures {
			return nil, ErrShape
		}
		leaf := t.leaf(x)
		if t.Criterion == Gini {
			out[i] = t.Classes[argmax(leaf.Probas)]
		} else {
			out[i] = leaf.Value
		}
	}
	return out, nil
}

// PredictProba returns per-class probabilities aligned with Classes.
func (t *Tree) PredictProba(X [][]float64) ([][]float64, error) {
	if t.Root == nil || t.Criterion != Gini {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != t.NFeatures {
			return nil, ErrShape
		}
		out[i] = t.leaf(x).Probas
	}
	return out, nil
}

func (t *Tree) leaf(x []float64) *Node {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// ---------------------------
// Growing
// ---------------------------

type builder struct {
	tree  *Tree
	X     [][]float64
	y     []float64
	class map[float64]int
	nFeat int
	rnd   *rand.Rand
}

type split struct {
	feature   int
	threshold float64
	pos       int     // rows [0,pos) of the sorted order go left
	score     float64 // weighted child impurity, lower is better
	order     []int
}

func (b *builder) build(idx []int, depth int) *Node {
	t := b.tree
	node := &Node{N: len(idx)}
	impurity := b.fillLeaf(node, idx)

	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) || impurity <= 1e-12 {
		node.Leaf = true
		return node
	}

	best := split{feature: -1, score: math.Inf(1)}
	for _, f := range b.features() {
		if s, ok := b.bestSplit(idx, f); ok && s.score < best.score {
			best = s
		}
	}
	if best.feature < 0 {
		node.Leaf = true
		return node
	}

	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = b.build(append([]int(nil), best.order[:best.pos]...), depth+1)
	node.Right = b.build(append([]int(nil), best.order[best.pos:]...), depth+1)
	return node
}

// fillLeaf stores the node prediction and returns its impurity.
func (b *builder) fillLeaf(node *Node, idx []int) float64 {
	if b.tree.Criterion == Gini {
		counts := make([]float64, len(b.class))
		for _, i := range idx {
			counts[b.class[b.y[i]]]++
		}
		node.Probas = normalize(counts)
		return gini(counts, float64(len(idx)))
	}
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	node.Value = sum / n
	return (sumSq - sum*sum/n) / n
}

// features draws the candidate features for one split without replacement.
func (b *builder) features() []int {
	p := b.tree.NFeatures
	feats := make([]int, p)
	for j := range feats {
		feats[j] = j
	}
	if b.nFeat >= p {
		return feats
	}
	for i := 0; i < b.nFeat; i++ {
		j := i + b.rnd.Intn(p-i)
		feats[i], feats[j] = feats[j], feats[i]
	}
	return feats[:b.nFeat]
}

// bestSplit scans the sorted values of feature f once, keeping running
// class counts (Gini) or sums (Variance) on each side.
func (b *builder) bestSplit(idx []int, f int) (split, bool) {
	order := append([]int(nil), idx...)
	sort.SliceStable(order, func(a, c int) bool { return b.X[order[a]][f] < b.X[order[c]][f] })

	n := len(order)
	minLeaf := max(1, b.tree.MinSamplesLeaf)
	best := split{feature: -1, score: math.Inf(1)}

	var (
		leftCounts, rightCounts []float64
		sumL, sqL, sumR, sqR    float64
	)
	if b.tree.Criterion == Gini {
		leftCounts = make([]float64, len(b.class))
		rightCounts = make([]float64, len(b.class))
		for _, i := range order {
			rightCounts[b.class[b.y[i]]]++
		}
	} else {
		for _, i := range order {
			sumR += b.y[i]
			sqR += b.y[i] * b.y[i]
		}
	}

	for pos := 1; pos < n; pos++ {
		moved := order[pos-1]
		if b.tree.Criterion == Gini {
			c := b.class[b.y[moved]]
			leftCounts[c]++
			rightCounts[c]--
		} else {
			v := b.y[moved]
			sumL += v
			sqL += v * v
			sumR -= v
			sqR -= v * v
		}
		if pos < minLeaf || n-pos < minLeaf {
			continue
		}
		lo, hi := b.X[moved][f], b.X[order[pos]][f]
		if lo == hi {
			continue
		}
		nl, nr := float64(pos), float64(n-pos)
		var score float64
		if b.tree.Criterion == Gini {
			score = (nl*gini(leftCounts, nl) + nr*gini(rightCounts, nr)) / float64(n)
		} else {
			score = ((sqL - sumL*sumL/nl) + (sqR - sumR*sumR/nr)) / float64(n)
		}
		if score < best.score {
			thr := lo/2 + hi/2
			if thr == hi {
				thr = lo
			}
			best = split{feature: f, threshold: thr, pos: pos, score: score, order: order}
		}
	}
	return best, best.feature >= 0
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := c / n
		res -= p * p
	}
	return res
}

func normalize(counts []float64) []float64 {
	n := 0.0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = counts[i] / n
	}
	return p
}

func argmax(arr []float64) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}

func uniqueSorted(y []float64) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
