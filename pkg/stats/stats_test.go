package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	require.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	require.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	require.True(t, math.IsNaN(Median(nil)))
}

func TestModeTiesToSmallest(t *testing.T) {
	require.Equal(t, 1.0, Mode([]float64{3, 1, 3, 1, 2}))
	require.Equal(t, 7.0, Mode([]float64{7, 7, 1}))

	m, ok := ModeString([]string{"S", "C", "S", "Q", "C"})
	require.True(t, ok)
	require.Equal(t, "C", m)

	_, ok = ModeString(nil)
	require.False(t, ok)
}

func TestMomentsArePopulation(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	require.Equal(t, 5.0, Mean(x))
	require.InDelta(t, 4.0, Variance(x), 1e-12)
	require.InDelta(t, 2.0, Std(x), 1e-12)
	require.Equal(t, 40.0, Sum(x))
	lo, hi := MinMax(x)
	require.Equal(t, 2.0, lo)
	require.Equal(t, 9.0, hi)
	require.InDelta(t, 4.0, Percentile(x, 25), 1e-12)
}

func TestStandardScaler(t *testing.T) {
	s := NewStandardScaler()
	out := s.FitTransform([]float64{1, 2, 3, 4})
	require.InDelta(t, 0, Mean(out), 1e-12)
	require.InDelta(t, 1, Variance(out), 1e-12)

	flat := NewStandardScaler().FitTransform([]float64{5, 5, 5})
	require.Equal(t, []float64{0, 0, 0}, flat)

	raw := []float64{1}
	require.Equal(t, raw, NewStandardScaler().Transform(raw))
}
