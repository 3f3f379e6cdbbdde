package synth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-augment/dsp/batch"
)

// Reduction selects how OscillatorBank combines its oscillators.
type Reduction int

const (
	// ReduceSum adds all oscillators into one waveform.
	ReduceSum Reduction = iota
	// ReduceMean averages the oscillators.
	ReduceMean
	// ReduceNone returns one waveform per oscillator.
	ReduceNone
)

// OscillatorBank synthesizes a bank of sinusoids whose frequency and
// amplitude change every sample.
//
// freqs and amps are indexed [frame][pitch] and must have the same shape.
// The phase of each oscillator is the running sum of 2*pi*f/sampleRate,
// starting with the first frame. Oscillators at or above the Nyquist
// frequency are silenced for the frames where they alias.
//
// The result has shape (frames) for ReduceSum and ReduceMean and
// (pitches, frames) for ReduceNone.
func OscillatorBank(freqs, amps [][]float64, sampleRate float64, reduction Reduction) (*batch.Signal, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidArgument, sampleRate)
	}

	if reduction < ReduceSum || reduction > ReduceNone {
		return nil, fmt.Errorf("%w: reduction %d", ErrInvalidArgument, reduction)
	}

	frames := len(freqs)
	if frames == 0 || len(freqs[0]) == 0 {
		return nil, fmt.Errorf("%w: empty frequency matrix", batch.ErrInvalidShape)
	}

	pitches := len(freqs[0])
	if len(amps) != frames {
		return nil, fmt.Errorf("%w: %d amplitude frames, %d frequency frames", batch.ErrShapeMismatch, len(amps), frames)
	}

	for t := range freqs {
		if len(freqs[t]) != pitches || len(amps[t]) != pitches {
			return nil, fmt.Errorf("%w: frame %d has %d/%d pitches, want %d",
				batch.ErrShapeMismatch, t, len(freqs[t]), len(amps[t]), pitches)
		}
	}

	waves, err := batch.New(pitches, frames)
	if err != nil {
		return nil, err
	}

	nyquist := sampleRate / 2
	step := 2 * math.Pi / sampleRate

	for p := range pitches {
		row := waves.Row(p)
		phase := 0.0
		for t := range frames {
			f, a := freqs[t][p], amps[t][p]
			if math.Abs(f) >= nyquist {
				f, a = 0, 0
			}

			phase += f * step
			row[t] = a * math.Sin(phase)
		}
	}

	if reduction == ReduceNone {
		return waves, nil
	}

	out, err := batch.New(frames)
	if err != nil {
		return nil, err
	}

	dst := out.Row(0)
	for p := range pitches {
		for t, v := range waves.Row(p) {
			dst[t] += v
		}
	}

	if reduction == ReduceMean {
		for t := range dst {
			dst[t] /= float64(pitches)
		}
	}

	return out, nil
}

// ExtendPitch multiplies a per-frame base frequency by every entry of
// pattern, giving a [frame][pitch] matrix suitable for OscillatorBank.
func ExtendPitch(base, pattern []float64) [][]float64 {
	out := make([][]float64, len(base))
	for t, f := range base {
		row := make([]float64, len(pattern))
		for k, m := range pattern {
			row[k] = f * m
		}

		out[t] = row
	}

	return out
}

// HarmonicPattern returns the multipliers 1, 2, ..., n.
func HarmonicPattern(n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = float64(i + 1)
	}

	return out
}
