package estimator

import (
	"github.com/EhsanKA/raspr/pkg/hrv"
	"github.com/EhsanKA/raspr/pkg/types"
)

// MethodStatisticalBaseline is the registry key for the baseline method.
const MethodStatisticalBaseline = "statistical_baseline"

// minBaselineSamples is the smallest window the baseline method accepts.
const minBaselineSamples = 3

// Combination weights for the three sub-estimates. The raw heart-rate proxy
// (M1) is trusted least, the variability term (M2) most.
const (
	baselineWeightM1 = 0.3
	baselineWeightM2 = 0.4
	baselineWeightM3 = 0.3
)

// Empirical constants for the sub-formulas, calibrated to resting
// physiology (mean RR 600-1200 ms maps into the respiratory band).
const (
	// M1: breathing rate scales with heart rate at roughly HR/4.3 at rest.
	baselineHRDivisor = 4.3

	// M2: variability term centered near the resting respiratory range.
	baselineM2Center    = 15.0
	baselineM2CVRef     = 0.05 // typical resting CV_RR
	baselineM2CVSlope   = 25.0 // BPM per unit of CV deviation
	baselineM2SDNNRef   = 45.0 // ms
	baselineM2SDNNSlope = 0.02 // BPM per ms of SDNN deviation

	// M3: regression-like relation over mean RR and its variability.
	baselineM3Intercept = 28.5
	baselineM3MeanSlope = 0.018 // BPM per ms of mean RR
	baselineM3SDNNSlope = 0.05  // BPM per ms of SDNN
)

// StatisticalBaseline estimates breathing rate from a weighted blend of
// three closed-form sub-formulas over RR summary statistics. It exists as a
// cheap cross-check for the signal-processing methods.
type StatisticalBaseline struct {
	cfg *Config
}

// NewStatisticalBaseline builds the method; a nil cfg uses defaults.
func NewStatisticalBaseline(cfg *Config) *StatisticalBaseline {
	return &StatisticalBaseline{cfg: NewConfig(cfg)}
}

func (e *StatisticalBaseline) Name() string { return MethodStatisticalBaseline }

// Estimate implements the Estimator contract.
func (e *StatisticalBaseline) Estimate(w Window) Result {
	if err := checkWindow(w, minBaselineSamples); err != nil {
		return undefinedResult(e.Name(), err)
	}

	f := hrv.Extract(w.Intervals)
	m1, m2, m3, hr := subEstimates(f)

	details := map[string]float64{
		"count":        float64(f.Count),
		"mean_rr":      f.MeanRR,
		"sdnn":         f.SDNN,
		"cv_rr":        f.CVRR,
		"estimated_hr": hr,
		"m1":           m1,
		"m2":           m2,
		"m3":           m3,
	}

	// The clamp applies to the combination, never to the sub-estimates.
	raw := round1(baselineWeightM1*m1 + baselineWeightM2*m2 + baselineWeightM3*m3)
	bpm, clamped := clampBPM(e.cfg, raw, details)

	return Result{
		Method:  e.Name(),
		BPM:     types.BPM(bpm),
		Valid:   true,
		Clamped: clamped,
		RawBPM:  types.BPM(raw),
		Details: details,
	}
}

// Details implements the Estimator contract.
func (e *StatisticalBaseline) Details(w Window) map[string]float64 {
	r := e.Estimate(w)
	return r.Details
}

// subEstimates computes the three sub-formulas. Each is total on any window
// that passed validation (MeanRR > 0 is guaranteed by checkWindow).
func subEstimates(f hrv.Features) (m1, m2, m3, hr float64) {
	hr = 60000.0 / f.MeanRR
	m1 = hr / baselineHRDivisor

	m2 = baselineM2Center +
		(baselineM2CVRef-f.CVRR)*baselineM2CVSlope +
		(baselineM2SDNNRef-f.SDNN)*baselineM2SDNNSlope

	m3 = baselineM3Intercept - baselineM3MeanSlope*f.MeanRR + baselineM3SDNNSlope*f.SDNN
	return m1, m2, m3, hr
}
