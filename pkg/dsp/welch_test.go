package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sine samples a pure tone at fs Hz.
func sine(freq, fs float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return x
}

func TestWelch_LocatesToneFrequency(t *testing.T) {
	const fs = 4.0
	x := sine(0.3, fs, 1024)

	spec, err := Welch(x, fs, 256)
	require.NoError(t, err)
	require.False(t, spec.Reduced)
	assert.Equal(t, 256, spec.SegmentLen)

	peak := spec.PeakIn(0.0, fs/2, true)
	require.True(t, peak.OK)
	// bin width fs/256 = 0.015625 Hz; the tone lands within one bin
	assert.InDelta(t, 0.3, peak.Freq, fs/256)
	t.Logf("tone at 0.300 Hz detected at %.4f Hz (%.1f BPM)", peak.Freq, peak.BPM())
}

func TestWelch_ReducedSegmentFlag(t *testing.T) {
	const fs = 4.0
	x := sine(0.25, fs, 100) // shorter than one 256-sample segment

	spec, err := Welch(x, fs, 256)
	require.NoError(t, err)
	assert.True(t, spec.Reduced)
	assert.Equal(t, 64, spec.SegmentLen)

	peak := spec.PeakIn(0.0, fs/2, true)
	require.True(t, peak.OK)
	assert.InDelta(t, 0.25, peak.Freq, fs/float64(spec.SegmentLen))
}

func TestWelch_TooShort(t *testing.T) {
	_, err := Welch(sine(0.3, 4, 8), 4, 256)
	require.ErrorIs(t, err, ErrTooShort)

	_, err = Welch(sine(0.3, 4, 64), 0, 256)
	require.ErrorIs(t, err, ErrBadRate)
}

func TestWelch_FlatSignalHasNoPeak(t *testing.T) {
	x := make([]float64, 256) // all zero after demeaning anyway
	spec, err := Welch(x, 4, 256)
	require.NoError(t, err)

	peak := spec.PeakIn(0.04, 0.4, true)
	assert.False(t, peak.OK)
	assert.InDelta(t, 0.0, spec.TotalPower(), 1e-18)
}

func TestSpectrum_PeakIn_BandEdges(t *testing.T) {
	spec := Spectrum{
		Freqs: []float64{0.10, 0.15, 0.20},
		Power: []float64{1.0, 2.0, 3.0},
	}

	// half-open band excludes the upper edge
	p := spec.PeakIn(0.04, 0.15, false)
	require.True(t, p.OK)
	assert.InDelta(t, 0.10, p.Freq, 1e-12)

	// inclusive band admits it
	p = spec.PeakIn(0.04, 0.15, true)
	assert.InDelta(t, 0.15, p.Freq, 1e-12)
}

func TestWelch_StrongerToneWins(t *testing.T) {
	const fs = 4.0
	a := sine(0.35, fs, 1024)
	b := sine(0.10, fs, 1024)
	x := make([]float64, 1024)
	for i := range x {
		x[i] = 3*a[i] + b[i]
	}

	spec, err := Welch(x, fs, 256)
	require.NoError(t, err)

	hf := spec.PeakIn(0.15, 0.4, true)
	lf := spec.PeakIn(0.04, 0.15, false)
	require.True(t, hf.OK)
	require.True(t, lf.OK)
	assert.InDelta(t, 0.35, hf.Freq, fs/256)
	assert.InDelta(t, 0.10, lf.Freq, fs/256)
	assert.Greater(t, hf.Power, lf.Power)
}
