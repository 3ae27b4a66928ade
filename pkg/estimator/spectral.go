package estimator

import (
	"errors"

	"github.com/EhsanKA/raspr/pkg/dsp"
	"github.com/EhsanKA/raspr/pkg/types"
)

// MethodSpectralAnalysis is the registry key for the spectral method.
const MethodSpectralAnalysis = "spectral_analysis"

// minSpectralSamples is the smallest window the spectral method accepts;
// below it no usable time series can be built.
const minSpectralSamples = 10

// Selection notes identifying which rule of the peak-selection chain fired.
const (
	NoteHFPeakInRange    = "hf_peak_in_range"
	NoteClosestToRange   = "closest_to_valid_range"
	NoteLFFallback       = "lf_fallback"
	NoteCombinedFallback = "combined_band_fallback"
)

// SpectralAnalysis estimates breathing rate from the dominant frequency in
// the respiratory band of the RR power spectrum. The RR sequence is
// resampled to a uniform grid, detrended, and passed through Welch's method;
// band peaks are then ranked by a fixed priority chain.
type SpectralAnalysis struct {
	cfg *Config
}

// NewSpectralAnalysis builds the method; a nil cfg uses defaults.
func NewSpectralAnalysis(cfg *Config) *SpectralAnalysis {
	return &SpectralAnalysis{cfg: NewConfig(cfg)}
}

func (e *SpectralAnalysis) Name() string { return MethodSpectralAnalysis }

// Estimate implements the Estimator contract.
func (e *SpectralAnalysis) Estimate(w Window) Result {
	if err := checkWindow(w, minSpectralSamples); err != nil {
		return undefinedResult(e.Name(), err)
	}

	ts, vals := dsp.CumulativeTime(w.Intervals)
	resampled, err := dsp.Resample(ts, vals, e.cfg.SampleRate)
	if err != nil {
		return undefinedResult(e.Name(), ErrInsufficientData)
	}

	spec, err := dsp.Welch(dsp.Detrend(resampled), e.cfg.SampleRate, e.cfg.SegmentLen)
	if err != nil {
		if errors.Is(err, dsp.ErrTooShort) {
			return undefinedResult(e.Name(), ErrInsufficientData)
		}
		return undefinedResult(e.Name(), ErrDegenerateSignal)
	}

	vlf := spec.PeakIn(e.cfg.VLFLow, e.cfg.LFLow, false)
	lf := spec.PeakIn(e.cfg.LFLow, e.cfg.LFHigh, false)
	hf := spec.PeakIn(e.cfg.HFLow, e.cfg.HFHigh, true)

	details := map[string]float64{
		"count":              float64(len(w.Intervals)),
		"resampled_len":      float64(len(resampled)),
		"segment_len":        float64(spec.SegmentLen),
		"reduced_resolution": boolDetail(spec.Reduced),
		"total_power":        spec.TotalPower(),
	}
	peakDetails(details, "vlf", vlf)
	peakDetails(details, "lf", lf)
	peakDetails(details, "hf", hf)

	combined := spec.PeakIn(e.cfg.LFLow, e.cfg.HFHigh, true)
	chosen, note := selectRespiratoryPeak(e.cfg, hf, lf, combined)
	if !chosen.OK {
		return undefinedResult(e.Name(), ErrDegenerateSignal)
	}
	details["chosen_freq_hz"] = chosen.Freq

	raw := round1(chosen.BPM())
	bpm, clamped := clampBPM(e.cfg, raw, details)

	return Result{
		Method:  e.Name(),
		BPM:     types.BPM(bpm),
		Valid:   true,
		Clamped: clamped,
		RawBPM:  types.BPM(raw),
		Note:    note,
		Details: details,
	}
}

// Details implements the Estimator contract.
func (e *SpectralAnalysis) Details(w Window) map[string]float64 {
	r := e.Estimate(w)
	return r.Details
}

// selectRespiratoryPeak applies the fixed priority chain over the band
// peaks:
//
//	(a) an HF peak converting to a value inside [BRMin, BRMax] wins;
//	(b) an HF peak converting above BRMax yields whichever of the HF/LF
//	    peaks is numerically closest to the valid range;
//	(c) with no HF peak, the LF peak wins;
//	(d) otherwise fall back to the maximum-power peak across LF+HF.
//
// The chain order is load-bearing: (b)'s closest-to-range tie-break must run
// before any fallback.
func selectRespiratoryPeak(c *Config, hf, lf, combined dsp.Peak) (dsp.Peak, string) {
	switch {
	case hf.OK && hf.BPM() >= c.BRMin && hf.BPM() <= c.BRMax:
		return hf, NoteHFPeakInRange

	case hf.OK && hf.BPM() > c.BRMax:
		best := hf
		if lf.OK && rangeDistance(c, lf.BPM()) < rangeDistance(c, hf.BPM()) {
			best = lf
		}
		return best, NoteClosestToRange

	case !hf.OK && lf.OK:
		return lf, NoteLFFallback

	default:
		return combined, NoteCombinedFallback
	}
}

// rangeDistance is the distance of a BPM value to the valid range, zero
// inside it.
func rangeDistance(c *Config, bpm float64) float64 {
	switch {
	case bpm < c.BRMin:
		return c.BRMin - bpm
	case bpm > c.BRMax:
		return bpm - c.BRMax
	default:
		return 0
	}
}

func peakDetails(details map[string]float64, band string, p dsp.Peak) {
	if !p.OK {
		return
	}
	details[band+"_peak_hz"] = p.Freq
	details[band+"_peak_power"] = p.Power
	details[band+"_peak_bpm"] = p.BPM()
}

func boolDetail(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
