package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-augment/dsp/window"
)

// designFIR returns the odd-length, linear-phase lowpass shared by Aligned
// and Stream. The cutoff sits below the lower of the two Nyquist
// frequencies and the length grows with max(up, down), so decimation by a
// large factor gets as many sinc lobes as interpolation does. The taps sum
// to up, which restores unit gain after zero-stuffing.
func designFIR(up, down int, cfg config) ([]float64, error) {
	span := max(up, down)
	half := cfg.tapsPerPhase * span / 2
	n := 2*half + 1

	fc := 0.5 / float64(span) * cfg.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: cutoff %.6f outside (0, 0.5)", fc)
	}

	taps, err := window.Generate(window.TypeKaiser, n, window.WithBeta(cfg.kaiserBeta))
	if err != nil {
		return nil, err
	}

	var sum float64
	for i := range taps {
		taps[i] *= 2 * fc * sinc(2*fc*float64(i-half))
		sum += taps[i]
	}

	gain := float64(up) / sum
	for i := range taps {
		taps[i] *= gain
	}

	return taps, nil
}

// rationalize returns the last convergent of the continued fraction of v
// whose denominator does not exceed maxDen.
func rationalize(v float64, maxDen int) (num, den int) {
	if !validRate(v) {
		return 1, 1
	}

	// Convergents h/k; the *0 pair is the one before the current.
	h0, h1 := 0, 1
	k0, k1 := 1, 0

	x := v
	for {
		a := math.Floor(x)
		if a > float64(maxDen) && k1 > 0 {
			break
		}

		ai := int(a)

		h2, k2 := ai*h1+h0, ai*k1+k0
		if k2 > maxDen {
			break
		}

		h0, h1 = h1, h2
		k0, k1 = k1, k2

		frac := x - a
		if frac < 1e-12 {
			break
		}

		x = 1 / frac
	}

	if h1 == 0 {
		// v is below 1/maxDen.
		return 1, maxDen
	}

	g := gcd(h1, k1)

	return h1 / g, k1 / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
