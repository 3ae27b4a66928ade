package estimator

import (
	"github.com/EhsanKA/raspr/pkg/hrv"
	"github.com/EhsanKA/raspr/pkg/types"
)

// MethodHRVTimeDomain is the registry key for the time-domain method.
const MethodHRVTimeDomain = "hrv_time_domain"

// minHRVSamples is the smallest window the time-domain method accepts.
const minHRVSamples = 5

// Fixed combination weights for the feature-derived components. They sum
// to 1: RMSSD carries the respiratory-sinus-arrhythmia signal, SDNN the
// overall variability, pNN50 the vagal tone.
const (
	hrvWeightRMSSD = 0.5
	hrvWeightSDNN  = 0.3
	hrvWeightPNN50 = 0.2
)

// Mapping constants for the SDNN and pNN50 components. Both are centered on
// the middle of the resting respiratory range and calibrated so typical
// resting HRV (SDNN 30-50 ms, pNN50 0.05-0.3) stays inside [12,20] BPM.
const (
	hrvBaselineBPM = 16.0  // center of the resting range
	hrvSDNNRef     = 40.0  // ms, typical resting SDNN
	hrvSDNNSlope   = 0.05  // BPM per ms of SDNN deviation
	hrvPNN50Ref    = 0.15  // typical resting pNN50 fraction
	hrvPNN50Slope  = 10.0  // BPM per unit of pNN50 deviation
	rmssdCompress  = 0.25  // slope applied outside the expected RMSSD band
)

// HRVTimeDomain estimates breathing rate from time-domain HRV features.
// Respiratory sinus arrhythmia couples vagally mediated variability to
// breathing: stronger short-term variability accompanies slower breathing.
type HRVTimeDomain struct {
	cfg *Config
}

// NewHRVTimeDomain builds the method; a nil cfg uses defaults.
func NewHRVTimeDomain(cfg *Config) *HRVTimeDomain {
	return &HRVTimeDomain{cfg: NewConfig(cfg)}
}

func (e *HRVTimeDomain) Name() string { return MethodHRVTimeDomain }

// Estimate implements the Estimator contract.
func (e *HRVTimeDomain) Estimate(w Window) Result {
	if err := checkWindow(w, minHRVSamples); err != nil {
		return undefinedResult(e.Name(), err)
	}

	cleaned := hrv.FilterOutliers(w.Intervals, e.cfg.OutlierMAD)
	if len(cleaned) < minHRVSamples {
		return undefinedResult(e.Name(), ErrInsufficientData)
	}
	f := hrv.Extract(hrv.Detrend(cleaned))
	if f.SDNN == 0 {
		// zero variance carries no respiratory modulation
		return undefinedResult(e.Name(), ErrDegenerateSignal)
	}

	details := e.featureDetails(f, len(w.Intervals))
	raw := e.combine(f, details)
	bpm, clamped := clampBPM(e.cfg, round1(raw), details)

	return Result{
		Method:  e.Name(),
		BPM:     types.BPM(bpm),
		Valid:   true,
		Clamped: clamped,
		RawBPM:  types.BPM(round1(raw)),
		Details: details,
	}
}

// Details implements the Estimator contract. It is pure and reuses the same
// computation as Estimate.
func (e *HRVTimeDomain) Details(w Window) map[string]float64 {
	r := e.Estimate(w)
	return r.Details
}

// combine maps the features to component breathing rates and blends them
// with the fixed weights.
func (e *HRVTimeDomain) combine(f hrv.Features, details map[string]float64) float64 {
	span := e.cfg.RMSSDHigh - e.cfg.RMSSDLow

	// Rescale RMSSD against its expected band: values inside [RMSSDLow,
	// RMSSDHigh] pass through, values outside are compressed toward the
	// nearest edge instead of extrapolating linearly.
	r := f.RMSSD
	switch {
	case r < e.cfg.RMSSDLow:
		r = e.cfg.RMSSDLow + (r-e.cfg.RMSSDLow)*rmssdCompress
	case r > e.cfg.RMSSDHigh:
		r = e.cfg.RMSSDHigh + (r-e.cfg.RMSSDHigh)*rmssdCompress
	}
	details["rmssd_scaled"] = r

	// High RMSSD (strong modulation) maps to the slow end of the range.
	brRMSSD := e.cfg.BRMax - (r-e.cfg.RMSSDLow)/span*(e.cfg.BRMax-e.cfg.BRMin)
	brSDNN := hrvBaselineBPM + (hrvSDNNRef-f.SDNN)*hrvSDNNSlope
	brPNN50 := hrvBaselineBPM + (hrvPNN50Ref-f.PNN50)*hrvPNN50Slope

	details["br_rmssd"] = brRMSSD
	details["br_sdnn"] = brSDNN
	details["br_pnn50"] = brPNN50

	return hrvWeightRMSSD*brRMSSD + hrvWeightSDNN*brSDNN + hrvWeightPNN50*brPNN50
}

func (e *HRVTimeDomain) featureDetails(f hrv.Features, rawCount int) map[string]float64 {
	return map[string]float64{
		"count":       float64(rawCount),
		"count_clean": float64(f.Count),
		"mean_rr":     f.MeanRR,
		"rmssd":       f.RMSSD,
		"sdnn":        f.SDNN,
		"pnn50":       f.PNN50,
		"cv_rr":       f.CVRR,
	}
}
