package estimator

import (
	"fmt"
	"math"
	"time"

	"github.com/EhsanKA/raspr/pkg/types"
)

// Window is one bounded slice of an RR stream. It is immutable once built;
// estimators never modify Intervals.
type Window struct {
	Start time.Time
	End   time.Time

	// Intervals are RR intervals in milliseconds, ordered by occurrence.
	Intervals []float64

	// Partial marks a trailing window shorter than the configured length.
	Partial bool
}

// Duration returns the window's time span.
func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Result is a single method's estimate for a single window.
type Result struct {
	Method string    `json:"method"`
	BPM    types.BPM `json:"bpm"`

	// Valid is false when BPM is undefined; Reason then states why.
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	// Clamped is set when the physiological clamp moved the estimate; the
	// pre-clamp value is kept in RawBPM and Details["raw_bpm"].
	Clamped bool      `json:"clamped"`
	RawBPM  types.BPM `json:"raw_bpm"`

	// Note carries a short machine-readable tag for non-default decisions,
	// e.g. which spectral selection rule fired.
	Note string `json:"note,omitempty"`

	Details map[string]float64 `json:"details,omitempty"`
}

// Estimator is the capability every method implements: validate the window,
// compute, constrain to the physiological range, and report. Estimate never
// panics on expected bad input; it returns an undefined result with a
// reason. Details exposes the method's named intermediate values and may be
// called independently of Estimate.
type Estimator interface {
	Name() string
	Estimate(w Window) Result
	Details(w Window) map[string]float64
}

// checkWindow validates minimum sample count and basic signal sanity.
func checkWindow(w Window, minSamples int) error {
	if len(w.Intervals) < minSamples {
		return fmt.Errorf("%w: %d of %d samples", ErrInsufficientData, len(w.Intervals), minSamples)
	}
	for i, rr := range w.Intervals {
		if math.IsNaN(rr) || rr <= 0 {
			return fmt.Errorf("%w: interval %d = %v", ErrInvalidSample, i, rr)
		}
	}
	return nil
}

// undefinedResult folds a recoverable validation error into a Result.
func undefinedResult(method string, err error) Result {
	return Result{
		Method: method,
		BPM:    types.Undefined(),
		RawBPM: types.Undefined(),
		Reason: reasonFor(err),
	}
}

// clampBPM applies the physiological constraint: values below BRMin floor to
// it, values above BRMax cap to it, and the pre-clamp value is recorded in
// diagnostics either way.
func clampBPM(c *Config, raw float64, details map[string]float64) (bpm float64, clamped bool) {
	details["raw_bpm"] = raw
	switch {
	case raw < c.BRMin:
		details["clamped"] = 1
		return c.BRMin, true
	case raw > c.BRMax:
		details["clamped"] = 1
		return c.BRMax, true
	default:
		details["clamped"] = 0
		return raw, false
	}
}

// round1 rounds to one decimal, the reporting precision for BPM values.
func round1(x float64) float64 { return math.Round(x*10) / 10 }
