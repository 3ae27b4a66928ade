package types

import (
	"fmt"
	"math"
)

// BPM is a float64 wrapper representing a breathing rate in breaths per
// minute. The zero of the domain is "undefined": NaN marks an estimate that
// could not be produced, and it survives JSON round-trips as null.
type BPM float64

// Undefined returns the sentinel for an estimate that could not be produced.
func Undefined() BPM { return BPM(math.NaN()) }

// IsUndefined reports whether the value carries the undefined sentinel.
func (b BPM) IsUndefined() bool { return math.IsNaN(float64(b)) }

// String renders the value with one decimal, or "undefined".
func (b BPM) String() string {
	if b.IsUndefined() {
		return "undefined"
	}
	return fmt.Sprintf("%.1f bpm", float64(b))
}

// MarshalJSON encodes undefined values as null; NaN is not valid JSON.
func (b BPM) MarshalJSON() ([]byte, error) {
	if b.IsUndefined() {
		return []byte("null"), nil
	}
	return fmt.Appendf(nil, "%g", float64(b)), nil
}

// UnmarshalJSON accepts a number or null.
func (b *BPM) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = Undefined()
		return nil
	}
	var v float64
	if _, err := fmt.Sscanf(string(data), "%g", &v); err != nil {
		return fmt.Errorf("types: parse bpm %q: %w", data, err)
	}
	*b = BPM(v)
	return nil
}

// Hz converts the breathing rate to a frequency in Hertz.
func (b BPM) Hz() float64 { return float64(b) / 60 }

// FromHz converts a frequency in Hertz to breaths per minute.
func FromHz(f float64) BPM { return BPM(f * 60) }
