// Package mix scales and adds noise to batched signals at a target
// signal-to-noise ratio.
package mix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-augment/dsp/batch"
	"github.com/cwbudde/algo-augment/dsp/core"
)

var (
	// ErrZeroNoise indicates a noise row without energy in the valid region.
	ErrZeroNoise = errors.New("mix: zero noise energy")
	// ErrInvalidLength indicates a valid length outside (0, T].
	ErrInvalidLength = errors.New("mix: invalid length")
)

type config struct {
	workers int
}

// Option configures AddNoise.
type Option func(*config)

// WithWorkers bounds the number of rows mixed concurrently.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// AddNoise returns waveform + k*noise where k is chosen per row so that the
// ratio of signal to scaled noise energy equals snr (dB).
//
// Energies are measured over the first lengths[i] samples of each row, or
// over the whole row when lengths is nil. waveform and noise must have the
// same shape; snr and lengths must have the batch shape. A silent waveform
// row is returned unchanged.
func AddNoise(waveform, noise *batch.Signal, lengths *batch.Lengths, snr *batch.Vector[float64], opts ...Option) (*batch.Signal, error) {
	if waveform == nil || noise == nil {
		return nil, fmt.Errorf("%w: nil signal", batch.ErrInvalidShape)
	}

	if !slices.Equal(waveform.Shape(), noise.Shape()) {
		return nil, fmt.Errorf("%w: waveform %v, noise %v", batch.ErrShapeMismatch, waveform.Shape(), noise.Shape())
	}

	if snr == nil || !snr.Describes(waveform) {
		return nil, fmt.Errorf("%w: snr does not match batch shape %v", batch.ErrShapeMismatch, waveform.BatchShape())
	}

	t := waveform.Len()
	if lengths == nil {
		lengths = batch.Full(t, waveform.BatchShape()...)
	}

	if !lengths.Describes(waveform) {
		return nil, fmt.Errorf("%w: lengths %v, batch shape %v", batch.ErrShapeMismatch, lengths.Shape(), waveform.BatchShape())
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := waveform.Clone()
	err := batch.ForEachRow(out.Rows(), cfg.workers, func(i int) error {
		l := lengths.At(i)
		if l <= 0 || l > t {
			return fmt.Errorf("%w: lengths[%d] = %d, want (0, %d]", ErrInvalidLength, i, l, t)
		}

		n := noise.Row(i)
		en := core.Energy(n[:l])
		if en == 0 {
			return fmt.Errorf("%w: row %d", ErrZeroNoise, i)
		}

		es := core.Energy(out.Row(i)[:l])
		current := core.LinearPowerToDB(es) - core.LinearPowerToDB(en)
		k := core.DBToLinear(current - snr.At(i))
		if k == 0 {
			return nil
		}

		row := out.Row(i)
		for j, v := range n {
			row[j] += k * v
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
