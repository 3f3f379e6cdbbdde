// Package scale converts between Hz and perceptual frequency scales and
// builds triangular filterbanks on them.
package scale

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidScale indicates an unknown Bark formula.
	ErrInvalidScale = errors.New("scale: invalid scale")
	// ErrInvalidArgument indicates a filterbank parameter out of range.
	ErrInvalidArgument = errors.New("scale: invalid argument")
	// ErrShapeMismatch indicates a spectrogram whose height is not the
	// filterbank's number of frequency bins.
	ErrShapeMismatch = errors.New("scale: shape mismatch")
)

// Scale selects a Hz to Bark formula.
type Scale int

const (
	// Traunmuller is Traunmüller (1990) with the low and high corrections.
	Traunmuller Scale = iota
	// Schroeder is 7*asinh(f/650).
	Schroeder
	// Wang is 6*asinh(f/600).
	Wang
)

// String returns the lower-case scale name.
func (s Scale) String() string {
	switch s {
	case Traunmuller:
		return "traunmuller"
	case Schroeder:
		return "schroeder"
	case Wang:
		return "wang"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// ParseScale parses "traunmuller", "schroeder" or "wang".
func ParseScale(s string) (Scale, error) {
	for _, sc := range []Scale{Traunmuller, Schroeder, Wang} {
		if sc.String() == s {
			return sc, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidScale, s)
}

func (s Scale) validate() error {
	if s < Traunmuller || s > Wang {
		return fmt.Errorf("%w: %d", ErrInvalidScale, int(s))
	}

	return nil
}

// HzToBark converts a frequency in Hz to Barks.
func HzToBark(hz float64, s Scale) float64 {
	switch s {
	case Wang:
		return 6 * math.Asinh(hz/600)
	case Schroeder:
		return 7 * math.Asinh(hz/650)
	}

	b := 26.81*hz/(1960+hz) - 0.53
	switch {
	case b < 2:
		b += 0.15 * (2 - b)
	case b > 20.1:
		b += 0.22 * (b - 20.1)
	}

	return b
}

// BarkToHz is the inverse of HzToBark.
func BarkToHz(bark float64, s Scale) float64 {
	switch s {
	case Wang:
		return 600 * math.Sinh(bark/6)
	case Schroeder:
		return 650 * math.Sinh(bark/7)
	}

	switch {
	case bark < 2:
		bark = (bark - 0.3) / 0.85
	case bark > 20.1:
		bark = (bark + 4.422) / 1.22
	}

	return 1960 * (bark + 0.53) / (26.28 - bark)
}

// Filterbank maps nFreqs linear frequency bins to nBarks triangular bands.
type Filterbank struct {
	weights *mat.Dense // nFreqs x nBarks
	scale   Scale
}

// BarkFilterbank builds nBarks triangular filters whose edges are equally
// spaced in Barks between fMin and fMax. The nFreqs bins span 0 to
// sampleRate/2.
func BarkFilterbank(nFreqs int, fMin, fMax float64, nBarks int, sampleRate float64, s Scale) (*Filterbank, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	if nFreqs < 2 || nBarks < 1 {
		return nil, fmt.Errorf("%w: nFreqs=%d nBarks=%d", ErrInvalidArgument, nFreqs, nBarks)
	}

	if sampleRate <= 0 || fMin < 0 || fMax <= fMin || fMax > sampleRate/2 {
		return nil, fmt.Errorf("%w: fMin=%v fMax=%v sampleRate=%v", ErrInvalidArgument, fMin, fMax, sampleRate)
	}

	bMin, bMax := HzToBark(fMin, s), HzToBark(fMax, s)
	edges := make([]float64, nBarks+2)
	for i := range edges {
		b := bMin + (bMax-bMin)*float64(i)/float64(nBarks+1)
		edges[i] = BarkToHz(b, s)
	}

	nyquist := sampleRate / 2
	w := mat.NewDense(nFreqs, nBarks, nil)
	for k := range nFreqs {
		f := nyquist * float64(k) / float64(nFreqs-1)
		for m := range nBarks {
			down := (f - edges[m]) / (edges[m+1] - edges[m])
			up := (edges[m+2] - f) / (edges[m+2] - edges[m+1])
			w.Set(k, m, math.Max(0, math.Min(down, up)))
		}
	}

	return &Filterbank{weights: w, scale: s}, nil
}

// Dims returns the number of frequency bins and Bark bands.
func (fb *Filterbank) Dims() (nFreqs, nBarks int) {
	return fb.weights.Dims()
}

// Scale returns the Bark formula used for the band edges.
func (fb *Filterbank) Scale() Scale {
	return fb.scale
}

// Weights returns a copy of the (nFreqs x nBarks) weight matrix.
func (fb *Filterbank) Weights() [][]float64 {
	return denseRows(fb.weights)
}

// EmptyFilters returns the indices of bands whose weights are all zero,
// which happens when nFreqs is too small for nBarks.
func (fb *Filterbank) EmptyFilters() []int {
	_, c := fb.weights.Dims()
	var empty []int
	for m := range c {
		if mat.Max(fb.weights.ColView(m)) == 0 {
			empty = append(empty, m)
		}
	}

	return empty
}

// Apply maps a (nFreqs x frames) spectrogram to (nBarks x frames).
func (fb *Filterbank) Apply(spec [][]float64) ([][]float64, error) {
	nFreqs, _ := fb.weights.Dims()
	if len(spec) != nFreqs || nFreqs == 0 || len(spec[0]) == 0 {
		return nil, fmt.Errorf("%w: spectrogram has %d rows, want %d", ErrShapeMismatch, len(spec), nFreqs)
	}

	frames := len(spec[0])
	s := mat.NewDense(nFreqs, frames, nil)
	for k, row := range spec {
		if len(row) != frames {
			return nil, fmt.Errorf("%w: row %d has %d frames, want %d", ErrShapeMismatch, k, len(row), frames)
		}

		s.SetRow(k, row)
	}

	var out mat.Dense
	out.Mul(fb.weights.T(), s)

	return denseRows(&out), nil
}
