package loader

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
)

func requirePartition(t *testing.T, n int, train, test []int) {
	t.Helper()
	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	require.Len(t, all, n)
	for i, v := range all {
		require.Equal(t, i, v)
	}
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(1000, 0.2, 42)
	require.NoError(t, err)
	require.Len(t, test, 200)
	require.Len(t, train, 800)
	requirePartition(t, 1000, train, test)

	train2, test2, err := TrainTestSplit(1000, 0.2, 42)
	require.NoError(t, err)
	require.Equal(t, test, test2)
	require.Equal(t, train, train2)

	_, test3, err := TrainTestSplit(1000, 0.2, 7)
	require.NoError(t, err)
	require.NotEqual(t, test, test3)
}

func TestTrainTestSplitRoundsUp(t *testing.T) {
	_, test, err := TrainTestSplit(891, 0.2, 42)
	require.NoError(t, err)
	require.Len(t, test, 179)
}

func TestSplitRejectsBadInput(t *testing.T) {
	_, _, err := TrainTestSplit(10, 0, 1)
	require.Error(t, err)
	_, _, err = TrainTestSplit(1, 0.2, 1)
	require.Error(t, err)
	_, _, err = StratifiedSplit([]float64{0, 1}, 1, 1)
	require.Error(t, err)
}

func TestStratifiedSplitKeepsProportions(t *testing.T) {
	labels := make([]float64, 891)
	for i := range labels {
		if i%8 < 3 { // 3/8 positives
			labels[i] = 1
		}
	}
	train, test, err := StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)
	requirePartition(t, len(labels), train, test)
	require.Len(t, test, 179)

	pos := 0.0
	for _, i := range test {
		pos += labels[i]
	}
	inputShare := 0.0
	for _, y := range labels {
		inputShare += y
	}
	inputShare /= float64(len(labels))
	require.InDelta(t, inputShare*float64(len(test)), pos, 1)
}

func TestSplitTable(t *testing.T) {
	n := 50
	ids := make([]float64, n)
	ys := make([]float64, n)
	for i := range ids {
		ids[i] = float64(i)
		ys[i] = float64(i % 2)
	}
	tab, err := data.NewTable(data.NewNumeric("id", ids), data.NewNumeric("y", ys))
	require.NoError(t, err)

	train, val, err := SplitTable(tab, 0.2, 42, "y")
	require.NoError(t, err)
	require.Equal(t, 10, val.Len())
	require.Equal(t, 40, train.Len())

	seen := map[float64]bool{}
	for _, part := range []*data.Table{train, val} {
		got, err := part.Numeric("id")
		require.NoError(t, err)
		for _, v := range got {
			require.False(t, seen[v])
			seen[v] = true
		}
	}
	require.Len(t, seen, n)

	_, _, err = SplitTable(tab, 0.2, 42, "absent")
	require.ErrorIs(t, err, data.ErrColumnNotFound)
}

func TestKFoldSplit(t *testing.T) {
	folds := KFoldSplit(10, 3, 1)
	require.Len(t, folds, 3)
	var all []int
	for _, f := range folds {
		all = append(all, f...)
	}
	requirePartition(t, 10, all, nil)
}
