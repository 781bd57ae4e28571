package stats

import "math"

// StandardScaler standardizes one column to zero mean and unit variance.
// The fitted statistics are exported so they can be persisted.
type StandardScaler struct {
	Mean float64
	Std  float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit records mean and population standard deviation. A constant column
// gets Std 1 so it transforms to zeros.
func (s *StandardScaler) Fit(x []float64) {
	s.Mean = Mean(x)
	s.Std = Std(x)
	if s.Std == 0 || math.IsNaN(s.Std) {
		s.Std = 1
	}
	s.fit = true
}

// Transform returns a standardized copy of x; unfitted scalers return x.
func (s *StandardScaler) Transform(x []float64) []float64 {
	if !s.fit {
		return x
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean) / s.Std
	}
	return out
}

func (s *StandardScaler) FitTransform(x []float64) []float64 { s.Fit(x); return s.Transform(x) }
