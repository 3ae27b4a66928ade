// Package estimator derives breathing-rate estimates (breaths per minute)
// from windows of RR intervals using three independent methods behind one
// contract.
//
// # Contract
//
//   - Estimate(Window) Result: validate minimum sample count and signal
//     sanity, compute, constrain to the physiological range, report.
//   - Details(Window) map[string]float64: the method's named intermediate
//     values, pure and side-effect free.
//
// Expected bad input (too few samples, non-positive or NaN intervals,
// degenerate signals) never panics and never propagates an error: the
// returned Result carries an undefined BPM and a reason string
// (insufficient_data, invalid_sample, degenerate_signal). Only the
// registry's unknown-method lookup returns a Go error, since that is a
// configuration mistake rather than a data condition.
//
// # Methods
//
//   - hrv_time_domain: MAD outlier rejection and linear detrend, then a
//     weighted blend of RMSSD/SDNN/pNN50-derived components, with RMSSD
//     rescaled against its expected 10-50 ms resting band.
//   - spectral_analysis: cumulative beat time axis, cubic resampling to a
//     uniform 4 Hz grid, Welch PSD (Hann, 50% overlap, 256-point segments),
//     then a fixed four-rule priority chain over the VLF/LF/HF band peaks.
//   - statistical_baseline: weighted blend (0.3/0.4/0.3) of three
//     closed-form sub-formulas over RR summary statistics.
//
// # Physiological constraint
//
// Every defined result is clamped to the resting range [12,20] BPM; whenever
// the clamp moves a value the result carries Clamped=true and the pre-clamp
// value in RawBPM and Details["raw_bpm"]. No method reports an implausible
// value silently.
//
// Constants (range bounds, band edges, resampling rate) live in Config,
// constructed once via NewConfig and shared read-only by all methods.
package estimator
