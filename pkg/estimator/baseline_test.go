package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhsanKA/raspr/pkg/hrv"
)

func TestStatisticalBaseline_WeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, baselineWeightM1+baselineWeightM2+baselineWeightM3, 1e-12)
}

func TestStatisticalBaseline_CanonicalWeighting(t *testing.T) {
	// A 76.2 BPM heart-rate proxy scales to M1 = 76.2/4.3; combined with
	// M2 = 15.8 and M3 = 14.2 the weighted blend lands at 15.9, already in
	// range, so the clamp must not move it.
	m1 := 76.2 / baselineHRDivisor
	raw := round1(baselineWeightM1*m1 + baselineWeightM2*15.8 + baselineWeightM3*14.2)
	assert.InDelta(t, 15.9, raw, 1e-9)

	details := map[string]float64{}
	bpm, clamped := clampBPM(NewConfig(nil), raw, details)
	assert.False(t, clamped)
	assert.InDelta(t, 15.9, bpm, 1e-9)
}

func TestStatisticalBaseline_SubEstimates(t *testing.T) {
	f := hrv.Features{MeanRR: 800, SDNN: 40, CVRR: 0.05}
	m1, m2, m3, hr := subEstimates(f)

	assert.InDelta(t, 75.0, hr, 1e-9, "60000/800")
	assert.InDelta(t, 75.0/baselineHRDivisor, m1, 1e-9)
	assert.InDelta(t, 15.1, m2, 1e-9) // 15 + 0 + (45-40)*0.02
	assert.InDelta(t, 16.1, m3, 1e-9) // 28.5 - 14.4 + 2.0
	t.Logf("meanRR=800: m1=%.2f m2=%.2f m3=%.2f", m1, m2, m3)
}

func TestStatisticalBaseline_CombinedMatchesDetails(t *testing.T) {
	w := modulatedWindow(80, 820, 30, 0.25)
	r := NewStatisticalBaseline(nil).Estimate(w)
	require.True(t, r.Valid)

	want := round1(baselineWeightM1*r.Details["m1"] +
		baselineWeightM2*r.Details["m2"] +
		baselineWeightM3*r.Details["m3"])
	assert.InDelta(t, want, float64(r.RawBPM), 1e-9)
}

func TestStatisticalBaseline_ClampAppliesToCombinationOnly(t *testing.T) {
	// mean RR 430 ms (~140 bpm heart rate): M1 alone is far above range;
	// the combination is clamped but the sub-estimates report unclamped
	w := modulatedWindow(40, 430, 15, 0.3)
	r := NewStatisticalBaseline(nil).Estimate(w)
	require.True(t, r.Valid)

	assert.Greater(t, r.Details["m1"], 20.0, "sub-estimate left unclamped")
	assert.LessOrEqual(t, float64(r.BPM), 20.0)
	assert.GreaterOrEqual(t, float64(r.BPM), 12.0)
	t.Logf("tachycardic window: m1=%.1f combined=%s clamped=%v",
		r.Details["m1"], r.BPM, r.Clamped)
}

func TestStatisticalBaseline_MinimumThreeSamples(t *testing.T) {
	e := NewStatisticalBaseline(nil)

	r := e.Estimate(Window{Intervals: []float64{800, 810}})
	require.False(t, r.Valid)
	assert.Equal(t, ReasonInsufficientData, r.Reason)

	r = e.Estimate(Window{Intervals: []float64{800, 810, 790}})
	assert.True(t, r.Valid)
}
