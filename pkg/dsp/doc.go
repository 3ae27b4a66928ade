// Package dsp turns an irregularly sampled RR-interval sequence into a
// uniformly sampled series and estimates its power spectral density.
//
// The pipeline mirrors the preprocessing needed for respiratory-band
// analysis of heart-rate variability:
//
//   - CumulativeTime: RR intervals to (time, value) samples on a beat-time
//     axis (RR sequences are not uniformly sampled).
//   - Resample: natural-cubic interpolation onto a fixed-rate grid.
//   - Detrend: least-squares removal of the linear trend.
//   - Welch: averaged-periodogram PSD with a Hann window and 50% segment
//     overlap. Signals shorter than the requested segment are handled by
//     shrinking the segment to the next power of two and flagging the
//     reduced frequency resolution on the returned Spectrum.
//
// The package does not implement an FFT; transform work is delegated to
// gonum's fourier backend and this package only assembles spectra from it.
package dsp
