package conv

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFTEngine computes full convolutions by multiplying zero-padded spectra.
//
// Plans are pooled per transform size. The pool map is guarded by an
// RWMutex, so a single FFTEngine can be shared by concurrent callers.
type FFTEngine struct {
	mu    sync.RWMutex
	pools map[int]*sync.Pool
}

// NewFFTEngine returns an FFTEngine with an empty plan pool.
func NewFFTEngine() *FFTEngine {
	return &FFTEngine{pools: make(map[int]*sync.Pool)}
}

var defaultFFTEngine = NewFFTEngine()

// FFTConvolve computes the mode-trimmed linear convolution of a and b using
// a single zero-padded FFT. It agrees with ConvolveMode to floating-point
// rounding.
func FFTConvolve(a, b []float64, mode Mode) ([]float64, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}

	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	full := make([]float64, len(a)+len(b)-1)
	if err := defaultFFTEngine.Full(full, a, b); err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// Full writes the full linear convolution of a and b to dst.
// dst must have length len(a)+len(b)-1.
func (e *FFTEngine) Full(dst, a, b []float64) error {
	if err := checkFull(dst, a, b); err != nil {
		return err
	}

	fftSize := nextPowerOf2(len(dst))

	plan, err := e.acquire(fftSize)
	if err != nil {
		return err
	}

	defer e.release(fftSize, plan)

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	for i, v := range a {
		aFreq[i] = complex(v, 0)
	}

	for i, v := range b {
		bFreq[i] = complex(v, 0)
	}

	if err := plan.Forward(aFreq, aFreq); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	if err := plan.Forward(bFreq, bFreq); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= bFreq[i]
	}

	if err := plan.Inverse(aFreq, aFreq); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(aFreq[i])
	}

	return nil
}

func (e *FFTEngine) acquire(size int) (*algofft.Plan[complex128], error) {
	if plan, ok := e.pool(size).Get().(*algofft.Plan[complex128]); ok {
		return plan, nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return plan, nil
}

func (e *FFTEngine) release(size int, plan *algofft.Plan[complex128]) {
	e.pool(size).Put(plan)
}

func (e *FFTEngine) pool(size int) *sync.Pool {
	e.mu.RLock()
	p, ok := e.pools[size]
	e.mu.RUnlock()
	if ok {
		return p
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok = e.pools[size]; !ok {
		p = &sync.Pool{}
		e.pools[size] = p
	}

	return p
}

func checkFull(dst, a, b []float64) error {
	if len(a) == 0 {
		return ErrEmptyInput
	}

	if len(b) == 0 {
		return ErrEmptyKernel
	}

	if want := len(a) + len(b) - 1; len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	return nil
}
