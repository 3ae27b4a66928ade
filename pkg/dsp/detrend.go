package dsp

import "gonum.org/v1/gonum/stat"

// Detrend subtracts the least-squares linear fit from a uniformly sampled
// series, leaving a zero-mean residual.
func Detrend(x []float64) []float64 {
	out := append([]float64(nil), x...)
	if len(x) < 2 {
		return out
	}
	idx := make([]float64, len(x))
	for i := range idx {
		idx[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(idx, x, nil, false)
	for i := range out {
		out[i] -= alpha + beta*idx[i]
	}
	return out
}
