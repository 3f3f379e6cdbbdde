package testutil

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/batch"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Cosine samples cos(2*pi*freqHz*t) at t = i/sampleRate.
func Cosine(freqHz, sampleRate float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Cos(2 * math.Pi * freqHz * t)
	}

	return out
}

// Uniform returns n values drawn uniformly from [0, 1) with a fixed seed.
func Uniform(seed uint64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, 0))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()
	}

	return out
}

// UniformSignal returns a batch.Signal of the given shape filled with
// Uniform(seed, ...). It panics on an invalid shape.
func UniformSignal(seed uint64, shape ...int) *batch.Signal {
	s, err := batch.New(shape...)
	if err != nil {
		panic(err)
	}

	copy(s.Data(), Uniform(seed, len(s.Data())))

	return s
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}
