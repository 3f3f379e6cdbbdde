package conv

import (
	"github.com/cwbudde/algo-augment/dsp/batch"
)

// Engine computes the full linear convolution of a single pair of rows.
// Implementations must be safe for concurrent use.
type Engine interface {
	// Full writes the convolution of a and b to dst, which must have
	// length len(a)+len(b)-1.
	Full(dst, a, b []float64) error
}

// DirectEngine convolves by direct summation.
type DirectEngine struct{}

// Full implements Engine.
func (DirectEngine) Full(dst, a, b []float64) error {
	if err := checkFull(dst, a, b); err != nil {
		return err
	}

	DirectTo(dst, a, b)

	return nil
}

// ConvolveBatch convolves every row of x with the matching row of y using
// direct summation. Leading dimensions are broadcast; the output has the
// broadcast batch shape and a time axis of mode.OutputLen(x.Len(), y.Len()).
func ConvolveBatch(x, y *batch.Signal, mode Mode) (*batch.Signal, error) {
	return convolveBatch(DirectEngine{}, x, y, mode, 0)
}

// FFTConvolveBatch is ConvolveBatch computed with zero-padded FFTs.
func FFTConvolveBatch(x, y *batch.Signal, mode Mode) (*batch.Signal, error) {
	return convolveBatch(defaultFFTEngine, x, y, mode, 0)
}

func convolveBatch(e Engine, x, y *batch.Signal, mode Mode, workers int) (*batch.Signal, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}

	if x == nil {
		return nil, ErrEmptyInput
	}

	if y == nil {
		return nil, ErrEmptyKernel
	}

	outBatch, err := batch.BroadcastShapes(x.BatchShape(), y.BatchShape())
	if err != nil {
		return nil, err
	}

	mx, err := batch.NewRowMapper(x.BatchShape(), outBatch)
	if err != nil {
		return nil, err
	}

	my, err := batch.NewRowMapper(y.BatchShape(), outBatch)
	if err != nil {
		return nil, err
	}

	lx, ly := x.Len(), y.Len()
	out, err := batch.New(append(outBatch, mode.OutputLen(lx, ly))...)
	if err != nil {
		return nil, err
	}

	err = batch.ForEachRow(out.Rows(), workers, func(i int) error {
		full := make([]float64, lx+ly-1)
		if err := e.Full(full, x.Row(mx.Map(i)), y.Row(my.Map(i))); err != nil {
			return err
		}

		copy(out.Row(i), trimToMode(full, lx, ly, mode))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Transform holds a convolution configuration and applies it to batches.
type Transform struct {
	mode    Mode
	engine  Engine
	workers int
}

// TransformOption configures a Transform.
type TransformOption func(*Transform)

// WithWorkers bounds the number of rows convolved concurrently.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) TransformOption {
	return func(t *Transform) {
		t.workers = n
	}
}

// NewTransform creates a convolution transform. A nil engine selects
// DirectEngine.
func NewTransform(mode Mode, engine Engine, opts ...TransformOption) (*Transform, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}

	if engine == nil {
		engine = DirectEngine{}
	}

	t := &Transform{mode: mode, engine: engine}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t, nil
}

// Mode returns the configured output mode.
func (t *Transform) Mode() Mode {
	return t.mode
}

// Apply convolves x with y.
func (t *Transform) Apply(x, y *batch.Signal) (*batch.Signal, error) {
	return convolveBatch(t.engine, x, y, t.mode, t.workers)
}
