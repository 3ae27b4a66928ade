// Package hrv computes time-domain heart-rate-variability features from
// RR-interval sequences (milliseconds), plus the preprocessing steps shared
// by the estimation methods: robust outlier rejection and linear detrending.
package hrv

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Features holds the time-domain HRV summary of one RR window.
// All interval-valued fields are in milliseconds; PNN50 and CVRR are ratios.
type Features struct {
	Count  int
	MeanRR float64
	RMSSD  float64
	SDNN   float64
	PNN50  float64
	CVRR   float64
}

// nn50ThresholdMS is the successive-difference threshold for pNN50.
const nn50ThresholdMS = 50.0

// Extract computes all features over the given intervals.
// Fewer than two intervals yield zero variability features.
func Extract(rr []float64) Features {
	f := Features{Count: len(rr)}
	if len(rr) == 0 {
		return f
	}
	f.MeanRR = stat.Mean(rr, nil)
	if len(rr) < 2 {
		return f
	}

	f.SDNN = stat.StdDev(rr, nil)

	var sumSq float64
	var nn50 int
	for i := 1; i < len(rr); i++ {
		d := rr[i] - rr[i-1]
		sumSq += d * d
		if math.Abs(d) > nn50ThresholdMS {
			nn50++
		}
	}
	f.RMSSD = math.Sqrt(sumSq / float64(len(rr)-1))
	f.PNN50 = float64(nn50) / float64(len(rr)-1)
	f.CVRR = safeDiv(f.SDNN, f.MeanRR)
	return f
}

// Median returns the median of x without mutating it.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}

// MAD returns the median absolute deviation of x around its median.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - m)
	}
	return Median(dev)
}

// FilterOutliers drops intervals farther than maxMAD median absolute
// deviations from the median. A zero MAD (constant or near-constant input)
// filters nothing.
func FilterOutliers(rr []float64, maxMAD float64) []float64 {
	if len(rr) == 0 {
		return nil
	}
	m := Median(rr)
	mad := MAD(rr)
	if mad == 0 {
		return append([]float64(nil), rr...)
	}
	out := make([]float64, 0, len(rr))
	for _, v := range rr {
		if math.Abs(v-m) <= maxMAD*mad {
			out = append(out, v)
		}
	}
	return out
}

// Detrend removes the least-squares linear trend from rr while preserving
// its mean, so that interval-magnitude features stay meaningful.
func Detrend(rr []float64) []float64 {
	if len(rr) < 3 {
		return append([]float64(nil), rr...)
	}
	xs := make([]float64, len(rr))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, rr, nil, false)
	mean := stat.Mean(rr, nil)
	out := make([]float64, len(rr))
	for i, v := range rr {
		out[i] = v - (alpha + beta*xs[i]) + mean
	}
	return out
}

func safeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}
