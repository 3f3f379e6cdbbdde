package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-augment/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator([]core.ProcessorOption{core.WithSampleRate(48000)})
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}

	if g.SampleRate() != 48000 {
		t.Fatalf("SampleRate() = %d", g.SampleRate())
	}
}

func TestDefaultSampleRate(t *testing.T) {
	if got := NewGenerator(nil).SampleRate(); got != 16000 {
		t.Fatalf("SampleRate() = %d, want 16000", got)
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(nil, WithSeed(42))
	g2 := NewGenerator(nil, WithSeed(42))
	g3 := NewGenerator(nil, WithSeed(43))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n2, _ := g2.WhiteNoise(1, 16)
	n3, _ := g3.WhiteNoise(1, 16)

	differs := false
	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}

		if n1[i] < -1 || n1[i] >= 1 {
			t.Fatalf("noise[%d] = %v out of range", i, n1[i])
		}

		if n1[i] != n3[i] {
			differs = true
		}
	}

	if !differs {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestGeneratorValidation(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.Sine(100, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Sine(0 samples) error = %v", err)
	}

	if _, err := g.WhiteNoise(-1, 8); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("WhiteNoise(-1) error = %v", err)
	}

	if _, err := Normalize(nil, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Normalize(nil) error = %v", err)
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if out[1] != 0.5 || math.Abs(out[0]+0.25) > 1e-15 {
		t.Fatalf("out = %v", out)
	}

	silent, err := Normalize([]float64{0, 0}, 1)
	if err != nil || silent[0] != 0 || silent[1] != 0 {
		t.Fatalf("Normalize(silence) = %v, %v", silent, err)
	}
}
