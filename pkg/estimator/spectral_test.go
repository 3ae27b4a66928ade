package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhsanKA/raspr/pkg/dsp"
)

func bpmPeak(bpm float64, power float64) dsp.Peak {
	return dsp.Peak{Freq: bpm / 60, Power: power, OK: true}
}

func TestSelectRespiratoryPeak_PriorityChain(t *testing.T) {
	cfg := NewConfig(nil)
	combined := bpmPeak(7, 0.5)

	cases := []struct {
		name     string
		hf, lf   dsp.Peak
		wantBPM  float64
		wantNote string
	}{
		{
			// (a) in-range HF peak wins even against a stronger LF peak
			name: "hf_in_range",
			hf:   bpmPeak(16, 1.0), lf: bpmPeak(6, 9.0),
			wantBPM: 16, wantNote: NoteHFPeakInRange,
		},
		{
			// (b) HF above range: candidate closest to [12,20] wins,
			// HF at 22 loses to a candidate at 18
			name: "closest_to_range_picks_18",
			hf:   bpmPeak(22, 1.0), lf: bpmPeak(18, 0.4),
			wantBPM: 18, wantNote: NoteClosestToRange,
		},
		{
			// (b) with a distant LF peak the HF peak stays closest
			name: "closest_to_range_keeps_hf",
			hf:   bpmPeak(22, 1.0), lf: bpmPeak(6, 0.4),
			wantBPM: 22, wantNote: NoteClosestToRange,
		},
		{
			// (c) no HF peak: LF fallback
			name: "lf_fallback",
			hf:   dsp.Peak{}, lf: bpmPeak(8, 0.4),
			wantBPM: 8, wantNote: NoteLFFallback,
		},
		{
			// (d) nothing else: combined LF+HF maximum
			name: "combined_fallback",
			hf:   dsp.Peak{}, lf: dsp.Peak{},
			wantBPM: 7, wantNote: NoteCombinedFallback,
		},
		{
			// HF below range is not rule (b); chain falls through to (d)
			name: "hf_below_range_falls_through",
			hf:   bpmPeak(10, 1.0), lf: bpmPeak(8, 0.4),
			wantBPM: 7, wantNote: NoteCombinedFallback,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, note := selectRespiratoryPeak(cfg, tc.hf, tc.lf, combined)
			require.True(t, got.OK)
			assert.InDelta(t, tc.wantBPM, got.BPM(), 1e-9)
			assert.Equal(t, tc.wantNote, note)
		})
	}
}

func TestSpectralAnalysis_FindsRespiratoryModulation(t *testing.T) {
	// 0.3 Hz modulation = 18 BPM, squarely inside the HF band
	w := modulatedWindow(220, 800, 50, 0.3)
	e := NewSpectralAnalysis(nil)

	r := e.Estimate(w)
	require.True(t, r.Valid, "reason=%s", r.Reason)
	assert.Equal(t, NoteHFPeakInRange, r.Note)
	assert.False(t, r.Clamped)
	assert.InDelta(t, 18.0, float64(r.BPM), 1.2) // within one Welch bin

	assert.Contains(t, r.Details, "hf_peak_hz")
	assert.Contains(t, r.Details, "chosen_freq_hz")
	t.Logf("0.3 Hz modulation -> %s (hf peak %.4f Hz)", r.BPM, r.Details["hf_peak_hz"])
}

func TestSpectralAnalysis_FastModulationClampsWithNote(t *testing.T) {
	// 0.37 Hz = 22.2 BPM: above the resting range, still inside the HF band
	w := modulatedWindow(260, 750, 45, 0.37)
	e := NewSpectralAnalysis(nil)

	r := e.Estimate(w)
	require.True(t, r.Valid, "reason=%s", r.Reason)
	assert.Equal(t, NoteClosestToRange, r.Note)
	assert.True(t, r.Clamped)
	assert.InDelta(t, 20.0, float64(r.BPM), 1e-9)
	assert.Greater(t, float64(r.RawBPM), 20.0)
	assert.InDelta(t, float64(r.RawBPM), r.Details["raw_bpm"], 1e-9)
}

func TestSpectralAnalysis_ReducedResolutionFlagged(t *testing.T) {
	// ~24 s of data: shorter than one 256-sample segment at 4 Hz
	w := modulatedWindow(30, 800, 40, 0.3)
	e := NewSpectralAnalysis(nil)

	r := e.Estimate(w)
	require.True(t, r.Valid, "reason=%s", r.Reason)
	assert.Equal(t, 1.0, r.Details["reduced_resolution"])
	assert.Less(t, r.Details["segment_len"], 256.0)
}

func TestSpectralAnalysis_RangeDistance(t *testing.T) {
	cfg := NewConfig(nil)
	assert.InDelta(t, 0.0, rangeDistance(cfg, 15), 1e-12)
	assert.InDelta(t, 0.0, rangeDistance(cfg, 12), 1e-12)
	assert.InDelta(t, 0.0, rangeDistance(cfg, 20), 1e-12)
	assert.InDelta(t, 2.0, rangeDistance(cfg, 22), 1e-12)
	assert.InDelta(t, 3.0, rangeDistance(cfg, 9), 1e-12)
}
