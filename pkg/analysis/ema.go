package analysis

import "github.com/EhsanKA/raspr/pkg/types"

// EMA is an exponential moving average over a BPM series. alpha in [0,1]:
// 1 passes values through, 0 holds the first value.
type EMA struct {
	alpha, prev float64
	ok          bool
}

// NewEMA returns an EMA with the given smoothing factor.
func NewEMA(alpha float64) *EMA { return &EMA{alpha: alpha} }

// Next folds v into the average and returns the smoothed value.
func (e *EMA) Next(v float64) float64 {
	if !e.ok {
		e.prev, e.ok = v, true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

// Smoothed returns the EMA-smoothed BPM series of one method across the
// report's windows. Undefined results stay undefined in the output and do
// not disturb the running average.
func (r *Report) Smoothed(method string, alpha float64) []types.BPM {
	out := make([]types.BPM, len(r.Windows))
	ema := NewEMA(alpha)
	for i, w := range r.Windows {
		res, ok := w.Results[method]
		if !ok || !res.Valid {
			out[i] = types.Undefined()
			continue
		}
		out[i] = types.BPM(ema.Next(float64(res.BPM)))
	}
	return out
}
