package scale

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultInverseIterations = 10000
	defaultInverseTolerance  = 1e-8
)

type inverseConfig struct {
	maxIter int
	tol     float64
}

// InverseOption configures Filterbank.Inverse.
type InverseOption func(*inverseConfig)

// WithMaxIterations bounds the number of gradient steps. Values <= 0 keep
// the default of 10000.
func WithMaxIterations(n int) InverseOption {
	return func(cfg *inverseConfig) {
		if n > 0 {
			cfg.maxIter = n
		}
	}
}

// WithTolerance sets the relative change between iterates below which the
// solver stops. Values <= 0 keep the default of 1e-8.
func WithTolerance(tol float64) InverseOption {
	return func(cfg *inverseConfig) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}

// Inverse estimates a non-negative (nFreqs x frames) spectrogram whose
// Bark projection is bark, an (nBarks x frames) matrix.
//
// The system is underdetermined wherever a band covers several bins, so the
// estimate is the minimum-norm-like solution reached by accelerated
// projected gradient descent from zero, not the original spectrogram. Bins
// that no band covers come back as zero.
func (fb *Filterbank) Inverse(bark [][]float64, opts ...InverseOption) ([][]float64, error) {
	nFreqs, nBarks := fb.weights.Dims()
	if len(bark) != nBarks || len(bark[0]) == 0 {
		return nil, fmt.Errorf("%w: bark spectrogram has %d rows, want %d", ErrShapeMismatch, len(bark), nBarks)
	}

	cfg := inverseConfig{maxIter: defaultInverseIterations, tol: defaultInverseTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	frames := len(bark[0])
	b := mat.NewDense(nBarks, frames, nil)

	for m, row := range bark {
		if len(row) != frames {
			return nil, fmt.Errorf("%w: row %d has %d frames, want %d", ErrShapeMismatch, m, len(row), frames)
		}

		b.SetRow(m, row)
	}

	x := mat.NewDense(nFreqs, frames, nil)

	// Step size 1/L where L = sigma_max(W)^2 is the gradient's Lipschitz
	// constant.
	var svd mat.SVD
	if !svd.Factorize(fb.weights, mat.SVDNone) {
		return nil, fmt.Errorf("%w: filterbank SVD failed", ErrInvalidArgument)
	}

	sigma := svd.Values(nil)[0]
	if sigma == 0 {
		return denseRows(x), nil
	}

	step := 1 / (sigma * sigma)

	y := mat.DenseCopyOf(x)
	next := mat.NewDense(nFreqs, frames, nil)
	diff := mat.NewDense(nFreqs, frames, nil)

	var resid, grad mat.Dense

	t := 1.0

	for range cfg.maxIter {
		resid.Mul(fb.weights.T(), y)
		resid.Sub(&resid, b)
		grad.Mul(fb.weights, &resid)

		next.Scale(-step, &grad)
		next.Add(next, y)
		next.Apply(func(_, _ int, v float64) float64 { return math.Max(v, 0) }, next)

		tNext := (1 + math.Sqrt(1+4*t*t)) / 2

		diff.Sub(next, x)
		y.Scale((t-1)/tNext, diff)
		y.Add(y, next)

		x, next = next, x
		t = tNext

		if mat.Norm(diff, 2) <= cfg.tol*mat.Norm(x, 2) {
			break
		}
	}

	return denseRows(x), nil
}

func denseRows(d *mat.Dense) [][]float64 {
	r, _ := d.Dims()

	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, d)
	}

	return out
}
