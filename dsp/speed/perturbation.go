package speed

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/cwbudde/algo-augment/dsp/batch"
)

type perturbationConfig struct {
	seed    uint64
	hasSeed bool
	draw    func(n int) int
	opts    []Option
}

// PerturbationOption configures a Perturbation.
type PerturbationOption func(*perturbationConfig)

// WithSeed sets a fixed RNG seed for deterministic draws.
func WithSeed(seed uint64) PerturbationOption {
	return func(cfg *perturbationConfig) {
		cfg.seed = seed
		cfg.hasSeed = true
	}
}

// WithIndexSource replaces the RNG with fn, which must return a value in
// [0, n). Out-of-range values make Apply fail with ErrInvalidIndex.
func WithIndexSource(fn func(n int) int) PerturbationOption {
	return func(cfg *perturbationConfig) {
		cfg.draw = fn
	}
}

// WithSpeedOptions passes options to every per-factor speed change.
func WithSpeedOptions(opts ...Option) PerturbationOption {
	return func(cfg *perturbationConfig) {
		cfg.opts = append(cfg.opts, opts...)
	}
}

// Perturbation applies a speed factor drawn uniformly from a fixed list.
// The same factor is applied to the whole batch of one call.
type Perturbation struct {
	sampleRate int
	factors    []float64
	speeds     []*Speed

	mu   sync.Mutex
	draw func(n int) int
}

// NewPerturbation validates the sample rate and every factor and prepares
// one converter per factor.
func NewPerturbation(sampleRate int, factors []float64, opts ...PerturbationOption) (*Perturbation, error) {
	if len(factors) == 0 {
		return nil, ErrNoFactors
	}

	var cfg perturbationConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Perturbation{
		sampleRate: sampleRate,
		factors:    slices.Clone(factors),
		speeds:     make([]*Speed, len(factors)),
		draw:       cfg.draw,
	}

	for i, f := range p.factors {
		s, err := New(sampleRate, f, cfg.opts...)
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", i, err)
		}

		p.speeds[i] = s
	}

	if p.draw == nil {
		var rng *rand.Rand
		if cfg.hasSeed {
			rng = rand.New(rand.NewPCG(cfg.seed, 0))
		} else {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}

		p.draw = rng.IntN
	}

	return p, nil
}

// Factors returns a copy of the candidate factors.
func (p *Perturbation) Factors() []float64 {
	return slices.Clone(p.factors)
}

// SampleRate returns the configured sample rate.
func (p *Perturbation) SampleRate() int {
	return p.sampleRate
}

// Apply draws a factor and applies it to the whole batch. It returns the
// resampled waveform, its lengths and the chosen factor.
func (p *Perturbation) Apply(waveform *batch.Signal, lengths *batch.Lengths) (*batch.Signal, *batch.Lengths, float64, error) {
	p.mu.Lock()
	idx := p.draw(len(p.factors))
	p.mu.Unlock()

	return p.ApplyIndex(idx, waveform, lengths)
}

// ApplyIndex applies the factor at idx.
func (p *Perturbation) ApplyIndex(idx int, waveform *batch.Signal, lengths *batch.Lengths) (*batch.Signal, *batch.Lengths, float64, error) {
	if idx < 0 || idx >= len(p.speeds) {
		return nil, nil, 0, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, idx, len(p.speeds))
	}

	s := p.speeds[idx]
	out, outLengths, err := s.Apply(waveform, lengths)
	if err != nil {
		return nil, nil, 0, err
	}

	return out, outLengths, s.factor, nil
}
