package synth

import (
	"fmt"
	"math"
)

type envelopeConfig struct {
	attack     float64
	hold       float64
	decay      float64
	sustain    float64
	release    float64
	decayPower float64
}

// EnvelopeOption configures ADSREnvelope. Durations are fractions of the
// envelope length.
type EnvelopeOption func(*envelopeConfig)

// WithAttack sets the rise time from 0 to 1.
func WithAttack(v float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.attack = v }
}

// WithHold sets how long the peak is held after the attack.
func WithHold(v float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.hold = v }
}

// WithDecay sets the fall time from 1 to the sustain level.
func WithDecay(v float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.decay = v }
}

// WithSustain sets the sustain level.
func WithSustain(v float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.sustain = v }
}

// WithRelease sets the fall time from the sustain level to 0 at the end.
func WithRelease(v float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.release = v }
}

// WithDecayPower sets the exponent of the decay curve. 1 is linear.
func WithDecayPower(n float64) EnvelopeOption {
	return func(c *envelopeConfig) { c.decayPower = n }
}

// ADSREnvelope returns a numFrames long attack-hold-decay-sustain-release
// amplitude envelope. By default the envelope is flat at 1.
//
// Every fraction must be in [0, 1] and attack+hold+decay+release must not
// exceed 1.
func ADSREnvelope(numFrames int, opts ...EnvelopeOption) ([]float64, error) {
	if numFrames <= 0 {
		return nil, fmt.Errorf("%w: frames must be > 0: %d", ErrInvalidArgument, numFrames)
	}

	cfg := envelopeConfig{sustain: 1, decayPower: 2}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	for _, p := range []struct {
		name string
		v    float64
	}{
		{"attack", cfg.attack},
		{"hold", cfg.hold},
		{"decay", cfg.decay},
		{"sustain", cfg.sustain},
		{"release", cfg.release},
	} {
		if !(p.v >= 0 && p.v <= 1) {
			return nil, fmt.Errorf("%w: %s must be in [0, 1]: %v", ErrInvalidArgument, p.name, p.v)
		}
	}

	if cfg.attack+cfg.hold+cfg.decay+cfg.release > 1 {
		return nil, fmt.Errorf("%w: attack+hold+decay+release exceeds 1", ErrInvalidArgument)
	}

	span := float64(numFrames - 1)
	numA := int(span * cfg.attack)
	numH := int(span * cfg.hold)
	numD := int(span * cfg.decay)
	numR := int(span * cfg.release)

	out := make([]float64, numFrames)
	for i := range out {
		out[i] = cfg.sustain
	}

	if numA > 0 {
		linspace(out[:numA+1], 0, 1)
	}

	if numH > 0 {
		for i := numA; i <= numA+numH; i++ {
			out[i] = 1
		}
	}

	if numD > 0 {
		seg := out[numA+numH : numA+numH+numD+1]
		linspace(seg, 1, 0)
		for i, v := range seg {
			seg[i] = cfg.sustain + (1-cfg.sustain)*math.Pow(v, cfg.decayPower)
		}
	}

	if numR > 0 {
		linspace(out[numFrames-numR-1:], cfg.sustain, 0)
	}

	return out, nil
}

func linspace(dst []float64, from, to float64) {
	if len(dst) == 1 {
		dst[0] = from
		return
	}

	step := (to - from) / float64(len(dst)-1)
	for i := range dst {
		dst[i] = from + step*float64(i)
	}
}
