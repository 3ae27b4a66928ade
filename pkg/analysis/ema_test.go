package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhsanKA/raspr/pkg/estimator"
	"github.com/EhsanKA/raspr/pkg/types"
)

func TestEMA_FirstSamplePassesThrough(t *testing.T) {
	e := NewEMA(0.3)
	assert.Equal(t, 14.0, e.Next(14.0))
}

func TestEMA_HalfAlphaSequence(t *testing.T) {
	e := NewEMA(0.5)
	assert.Equal(t, 10.0, e.Next(10))
	assert.Equal(t, 15.0, e.Next(20))
	assert.Equal(t, 17.5, e.Next(20))
	assert.Equal(t, 28.75, e.Next(40))
}

func TestEMA_AlphaExtremes(t *testing.T) {
	pass := NewEMA(1)
	pass.Next(12)
	assert.Equal(t, 19.0, pass.Next(19), "alpha=1 tracks the input")

	hold := NewEMA(0)
	hold.Next(12)
	assert.Equal(t, 12.0, hold.Next(19), "alpha=0 holds the first value")
}

func TestReport_SmoothedSkipsUndefined(t *testing.T) {
	method := estimator.MethodHRVTimeDomain
	mk := func(bpm float64, valid bool) WindowReport {
		res := estimator.Result{Method: method, Valid: valid, BPM: types.BPM(bpm)}
		if !valid {
			res.BPM = types.Undefined()
			res.Reason = estimator.ReasonInsufficientData
		}
		return WindowReport{Results: map[string]estimator.Result{method: res}}
	}
	rep := &Report{
		Methods: []string{method},
		Windows: []WindowReport{mk(14, true), mk(0, false), mk(18, true)},
	}

	got := rep.Smoothed(method, 0.5)
	require.Len(t, got, 3)
	assert.Equal(t, types.BPM(14), got[0])
	assert.True(t, got[1].IsUndefined(), "invalid window stays undefined")
	assert.Equal(t, types.BPM(16), got[2], "gap does not disturb the average")
}

func TestReport_SmoothedUnknownMethod(t *testing.T) {
	rep := &Report{Windows: []WindowReport{{}, {}}}
	got := rep.Smoothed("nope", 0.5)
	require.Len(t, got, 2)
	for _, v := range got {
		assert.True(t, v.IsUndefined())
	}
}

func TestReport_SmoothedEndToEnd(t *testing.T) {
	start := time.Unix(1700000000, 0)
	records := steadyStream(start, 120*time.Second, 800)

	a, err := New(estimator.NewRegistry(nil), Options{
		Window:  30 * time.Second,
		Methods: []string{estimator.MethodStatisticalBaseline},
	})
	require.NoError(t, err)
	rep, err := a.Run(records)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rep.Windows), 3)

	smoothed := rep.Smoothed(estimator.MethodStatisticalBaseline, 0.4)
	require.Len(t, smoothed, len(rep.Windows))
	for i, v := range smoothed {
		require.False(t, v.IsUndefined(), "window %d", i)
		t.Logf("window %d: raw %s smoothed %s", i,
			rep.Windows[i].Results[estimator.MethodStatisticalBaseline].BPM, v)
	}
}
