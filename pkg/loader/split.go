package loader

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
)

// testCount is the holdout size for n rows: ceil(testSize*n).
func testCount(n int, testSize float64) int {
	k := int(math.Ceil(testSize*float64(n) - 1e-9))
	if k > n {
		k = n
	}
	return k
}

func validate(n int, testSize float64) error {
	if testSize <= 0 || testSize >= 1 {
		return errors.Errorf("split: test size %v not in (0, 1)", testSize)
	}
	if n < 2 {
		return errors.Errorf("split: need at least 2 rows, got %d", n)
	}
	return nil
}

// TrainTestSplit shuffles the row indices 0..n-1 with seed and holds out
// ceil(testSize*n) of them.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if err := validate(n, testSize); err != nil {
		return nil, nil, err
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := testCount(n, testSize)
	return indices[nTest:], indices[:nTest], nil
}

// StratifiedSplit holds out ceil(testSize*n) rows so that every label keeps
// its share of the input within one row. Shares are allocated by largest
// remainder; ties go to the larger class, then the smaller label.
func StratifiedSplit(labels []float64, testSize float64, seed int64) (train, test []int, err error) {
	n := len(labels)
	if err := validate(n, testSize); err != nil {
		return nil, nil, err
	}
	groups := map[float64][]int{}
	var classes []float64
	for i, y := range labels {
		if math.IsNaN(y) {
			return nil, nil, errors.New("split: missing label")
		}
		if _, ok := groups[y]; !ok {
			classes = append(classes, y)
		}
		groups[y] = append(groups[y], i)
	}
	sort.Float64s(classes)

	nTest := testCount(n, testSize)
	type share struct {
		class float64
		take  int
		rem   float64
	}
	shares := make([]share, len(classes))
	allocated := 0
	for i, c := range classes {
		exact := float64(nTest) * float64(len(groups[c])) / float64(n)
		take := int(math.Floor(exact))
		shares[i] = share{class: c, take: take, rem: exact - float64(take)}
		allocated += take
	}
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := shares[order[a]], shares[order[b]]
		if sa.rem != sb.rem {
			return sa.rem > sb.rem
		}
		return len(groups[sa.class]) > len(groups[sb.class])
	})
	for i := 0; allocated < nTest; i++ {
		shares[order[i%len(order)]].take++
		allocated++
	}

	rnd := rand.New(rand.NewSource(seed))
	for _, s := range shares {
		idx := groups[s.class]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		test = append(test, idx[:s.take]...)
		train = append(train, idx[s.take:]...)
	}
	rnd.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
	rnd.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	return train, test, nil
}

// SplitTable partitions t into train and validation tables. With a stratify
// column the holdout preserves that column's label proportions.
func SplitTable(t *data.Table, testSize float64, seed int64, stratify string) (train, val *data.Table, err error) {
	var trainIdx, valIdx []int
	if stratify != "" {
		labels, lerr := t.Numeric(stratify)
		if lerr != nil {
			return nil, nil, errors.Wrap(lerr, "split: stratify")
		}
		trainIdx, valIdx, err = StratifiedSplit(labels, testSize, seed)
	} else {
		trainIdx, valIdx, err = TrainTestSplit(t.Len(), testSize, seed)
	}
	if err != nil {
		return nil, nil, err
	}
	return t.Take(trainIdx), t.Take(valIdx), nil
}

// KFoldSplit yields k folds of shuffled row indices.
func KFoldSplit(n, k int, seed int64) [][]int {
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i := 0; i < n; i++ {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds
}
