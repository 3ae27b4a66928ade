package dsp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

var (
	// ErrTooShort indicates the series has too few samples to resample or
	// transform.
	ErrTooShort = errors.New("dsp: series too short")

	// ErrBadRate indicates a non-positive sampling rate.
	ErrBadRate = errors.New("dsp: sampling rate must be > 0")
)

// CumulativeTime places each RR interval on a beat-time axis: sample i sits
// at the cumulative sum of intervals 0..i in seconds, valued at the interval
// itself (milliseconds). The axis is strictly increasing for positive input.
func CumulativeTime(rrMS []float64) (ts, vals []float64) {
	ts = make([]float64, len(rrMS))
	vals = make([]float64, len(rrMS))
	var acc float64
	for i, rr := range rrMS {
		acc += rr / 1000.0
		ts[i] = acc
		vals[i] = rr
	}
	return ts, vals
}

// Resample interpolates the (ts, vals) samples onto a uniform grid at the
// given rate (Hz) using a natural cubic spline. ts must be strictly
// increasing.
func Resample(ts, vals []float64, rate float64) ([]float64, error) {
	if rate <= 0 {
		return nil, ErrBadRate
	}
	if len(ts) < 4 || len(ts) != len(vals) {
		return nil, fmt.Errorf("%w: %d samples", ErrTooShort, len(ts))
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(ts, vals); err != nil {
		return nil, fmt.Errorf("dsp: fit spline: %w", err)
	}

	step := 1.0 / rate
	n := int((ts[len(ts)-1]-ts[0])/step) + 1
	if n < 2 {
		return nil, fmt.Errorf("%w: %d grid points", ErrTooShort, n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = spline.Predict(ts[0] + float64(i)*step)
	}
	return out, nil
}
