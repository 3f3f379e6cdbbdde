package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestCosine(t *testing.T) {
	c := Cosine(2, 1000, 1000)
	if c[0] != 1 {
		t.Fatalf("c[0] = %v, want 1", c[0])
	}
	// Half a period of a 2 Hz tone is 250 samples at 1 kHz.
	if math.Abs(c[250]+1) > 1e-12 {
		t.Fatalf("c[250] = %v, want -1", c[250])
	}
}

func TestUniformReproducible(t *testing.T) {
	a := Uniform(42, 64)
	b := Uniform(42, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("not deterministic at index %d", i)
		}

		if a[i] < 0 || a[i] >= 1 {
			t.Fatalf("a[%d] = %v outside [0,1)", i, a[i])
		}
	}

	c := Uniform(43, 64)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}

	if same {
		t.Fatal("different seeds produced identical values")
	}
}

func TestUniformSignal(t *testing.T) {
	s := UniformSignal(7, 4, 3, 10)
	if s.Rows() != 12 || s.Len() != 10 {
		t.Fatalf("shape = %v, want [4 3 10]", s.Shape())
	}

	want := Uniform(7, 120)
	for i, v := range s.Data() {
		if v != want[i] {
			t.Fatalf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}

		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}

	for _, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatal("out-of-range impulse should be all zeros")
		}
	}
}
