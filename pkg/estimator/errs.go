package estimator

import "errors"

var (
	// ErrInsufficientData indicates a window below a method's minimum
	// sample count. Recovered locally into an undefined result.
	ErrInsufficientData = errors.New("estimator: insufficient data")

	// ErrInvalidSample indicates a non-positive or NaN RR interval in the
	// window. Recovered locally into an undefined result.
	ErrInvalidSample = errors.New("estimator: invalid sample")

	// ErrDegenerateSignal indicates a window whose values admit no
	// meaningful estimate (e.g. zero variance, empty spectrum).
	ErrDegenerateSignal = errors.New("estimator: degenerate signal")

	// ErrUnknownMethod indicates a registry lookup for an unregistered
	// method name. This is a configuration error and is surfaced to the
	// caller instead of being folded into a result.
	ErrUnknownMethod = errors.New("estimator: unknown method")
)

// Reason strings recorded on undefined results.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonInvalidSample    = "invalid_sample"
	ReasonDegenerateSignal = "degenerate_signal"
)

// reasonFor maps a recoverable validation error to its result reason.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return ReasonInsufficientData
	case errors.Is(err, ErrInvalidSample):
		return ReasonInvalidSample
	case errors.Is(err, ErrDegenerateSignal):
		return ReasonDegenerateSignal
	default:
		return err.Error()
	}
}
