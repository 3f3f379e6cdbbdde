// Package sinc designs windowed-sinc FIR filters.
package sinc

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-augment/dsp/window"
)

var (
	// ErrInvalidWindowSize indicates an even or non-positive window size.
	ErrInvalidWindowSize = errors.New("sinc: window size must be odd and positive")
	// ErrInvalidCutoff indicates a cutoff outside (0, 1].
	ErrInvalidCutoff = errors.New("sinc: cutoff must be in (0, 1]")
)

// ImpulseResponse designs one linear-phase filter per cutoff. Cutoffs are
// normalized so that 1 is the Nyquist frequency.
//
// The low-pass response is c*sinc(c*(n-center)) under a symmetric Hamming
// window, scaled to unit DC gain. With highPass set the response is the
// spectral inverse delta[center] - h.
func ImpulseResponse(cutoffs []float64, windowSize int, highPass bool) ([][]float64, error) {
	if windowSize < 1 || windowSize%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, windowSize)
	}

	win, err := window.Generate(window.TypeHamming, windowSize)
	if err != nil {
		return nil, err
	}

	half := windowSize / 2
	out := make([][]float64, len(cutoffs))

	for i, c := range cutoffs {
		if !(c > 0 && c <= 1) {
			return nil, fmt.Errorf("%w: cutoffs[%d] = %v", ErrInvalidCutoff, i, c)
		}

		h := make([]float64, windowSize)
		var sum float64
		for n := range h {
			h[n] = c * sinc(c*float64(n-half)) * win[n]
			sum += h[n]
		}

		for n := range h {
			h[n] /= sum
		}

		if highPass {
			for n := range h {
				h[n] = -h[n]
			}

			h[half]++
		}

		out[i] = h
	}

	return out, nil
}

// LowPass is ImpulseResponse for a single low-pass cutoff.
func LowPass(cutoff float64, windowSize int) ([]float64, error) {
	h, err := ImpulseResponse([]float64{cutoff}, windowSize, false)
	if err != nil {
		return nil, err
	}

	return h[0], nil
}

// Response evaluates the frequency response of h at the given frequency (Hz).
func Response(h []float64, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var r complex128
	for k, c := range h {
		r += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}

	return r
}

// MagnitudeDB returns the magnitude response of h in dB.
func MagnitudeDB(h []float64, freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(Response(h, freqHz, sampleRate)))
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
