package model

import "math"

// Sigmoid is the logistic function.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// log1pExp is log(1+exp(x)) without overflow.
func log1pExp(x float64) float64 {
	if x > 35 {
		return x
	}
	if x < -35 {
		return math.Exp(x)
	}
	return math.Log1p(math.Exp(x))
}

// LogLoss is the mean binary cross-entropy of raw scores z against 0/1
// labels y.
func LogLoss(y, z []float64) float64 {
	s := 0.0
	for i := range y {
		s += log1pExp(z[i]) - y[i]*z[i]
	}
	return s / float64(len(y))
}
