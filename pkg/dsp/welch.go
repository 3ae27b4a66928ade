package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// minSegment is the smallest Welch segment length we will shrink to.
const minSegment = 16

// Spectrum is a one-sided power spectral density estimate.
type Spectrum struct {
	Freqs []float64 // Hz, ascending
	Power []float64 // density, same length as Freqs

	SegmentLen int  // segment length actually used
	Reduced    bool // true when SegmentLen was shrunk below the requested one
}

// Peak is the maximum-power bin of a frequency band.
type Peak struct {
	Freq  float64
	Power float64
	OK    bool // false when the band holds no bin with positive power
}

// BPM converts the peak frequency to breaths (or beats) per minute.
func (p Peak) BPM() float64 { return p.Freq * 60 }

// Welch estimates the PSD of x sampled at fs Hz using Welch's method: Hann
// window, 50% segment overlap, per-segment mean removal. segLen is the
// requested segment length; when the signal is shorter, the segment shrinks
// to the largest power of two that fits (never below minSegment) and the
// spectrum is flagged Reduced.
func Welch(x []float64, fs float64, segLen int) (Spectrum, error) {
	if fs <= 0 {
		return Spectrum{}, ErrBadRate
	}
	if len(x) < minSegment {
		return Spectrum{}, fmt.Errorf("%w: %d samples for welch", ErrTooShort, len(x))
	}

	n := segLen
	reduced := false
	if len(x) < n {
		n = largestPow2(len(x))
		reduced = true
	}
	if n < minSegment {
		n = minSegment
	}

	win := hann(n)
	var winPower float64
	for _, w := range win {
		winPower += w * w
	}
	scale := 1.0 / (fs * winPower)

	fft := fourier.NewFFT(n)
	nBins := n/2 + 1
	psd := make([]float64, nBins)
	seg := make([]float64, n)
	coeffs := make([]complex128, nBins)

	step := n / 2
	segments := 0
	for start := 0; start+n <= len(x); start += step {
		copy(seg, x[start:start+n])

		mean := stat.Mean(seg, nil)
		for i := range seg {
			seg[i] = (seg[i] - mean) * win[i]
		}

		coeffs = fft.Coefficients(coeffs, seg)
		for k, c := range coeffs {
			p := real(c)*real(c) + imag(c)*imag(c)
			psd[k] += p * scale
		}
		segments++
	}
	if segments == 0 {
		return Spectrum{}, fmt.Errorf("%w: no full segment", ErrTooShort)
	}
	floats.Scale(1/float64(segments), psd)

	// one-sided: double everything except DC and Nyquist
	for k := 1; k < nBins-1; k++ {
		psd[k] *= 2
	}

	freqs := make([]float64, nBins)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(n)
	}
	return Spectrum{Freqs: freqs, Power: psd, SegmentLen: n, Reduced: reduced}, nil
}

// PeakIn returns the maximum-power bin with lo <= f < hi. Set inclusive to
// also admit f == hi (used for the top edge of the highest band).
func (s Spectrum) PeakIn(lo, hi float64, inclusive bool) Peak {
	var best Peak
	for i, f := range s.Freqs {
		if f < lo || f > hi || (!inclusive && f == hi) {
			continue
		}
		if s.Power[i] > 0 && (!best.OK || s.Power[i] > best.Power) {
			best = Peak{Freq: f, Power: s.Power[i], OK: true}
		}
	}
	return best
}

// TotalPower integrates the density over the full spectrum (trapezoid-free
// bin sum; adequate for degeneracy checks).
func (s Spectrum) TotalPower() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	df := s.Freqs[1] - s.Freqs[0]
	return floats.Sum(s.Power) * df
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func largestPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
