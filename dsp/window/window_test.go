package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeKaiser} {
		t.Run(typ.String(), func(t *testing.T) {
			w, err := Generate(typ, 63)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if len(w) != 63 {
				t.Fatalf("len=%d, want 63", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}

				if d := math.Abs(v - w[len(w)-1-i]); d > 1e-12 {
					t.Fatalf("coefficient[%d] not symmetric: diff %g", i, d)
				}
			}

			if math.Abs(w[31]-1) > 1e-12 {
				t.Fatalf("center = %v, want 1", w[31])
			}
		})
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a, _ := Generate(TypeHann, 16)
	b, _ := Generate(TypeHann, 16, WithPeriodic())

	same := true
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			same = false
			break
		}
	}

	if same {
		t.Fatal("periodic and symmetric windows should differ")
	}

	// The periodic form is the symmetric form of length n+1 without its last point.
	c, _ := Generate(TypeHann, 17)
	checkGolden(t, b, c[:16], 1e-12)
}

func TestGoldenVectors(t *testing.T) {
	hannExpected := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}

	hammingExpected := []float64{
		0.08, 0.25319469114498255, 0.6423596296199047, 0.9544456792351128,
		0.9544456792351128, 0.6423596296199048, 0.25319469114498266, 0.08,
	}

	kaiserExpected := []float64{
		0.002338830460264423, 0.1091958100155291, 0.4871186737556569, 0.9261577358777303,
		0.9261577358777303, 0.4871186737556569, 0.1091958100155291, 0.002338830460264423,
	}

	hann, _ := Generate(TypeHann, 8)
	hamming, _ := Generate(TypeHamming, 8)
	kaiser, _ := Generate(TypeKaiser, 8, WithBeta(8))

	checkGolden(t, hann, hannExpected, 1e-10)
	checkGolden(t, hamming, hammingExpected, 1e-10)
	checkGolden(t, kaiser, kaiserExpected, 1e-6)
}

func TestKaiserZeroBetaIsRectangular(t *testing.T) {
	w, _ := Generate(TypeKaiser, 9, WithBeta(0))
	for i, v := range w {
		if v != 1 {
			t.Fatalf("w[%d] = %v, want 1", i, v)
		}
	}
}

func TestBesselI0(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, 1},
		{1, 1.2660658777520082},
		{5, 27.239871823604442},
	}

	for _, tc := range tests {
		if got := BesselI0(tc.x); math.Abs(got-tc.want) > 1e-9*tc.want {
			t.Fatalf("BesselI0(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	if err := Apply(TypeHann, buf); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	checkGolden(t, buf, []float64{0, 1, 2, 1, 0}, 1e-12)
}

func TestValidation(t *testing.T) {
	if _, err := Generate(TypeHann, 0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Generate(0) error = %v, want ErrInvalidLength", err)
	}

	if err := Apply(TypeHann, nil); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Apply(nil) error = %v, want ErrInvalidLength", err)
	}

	w, err := Generate(TypeHann, 1)
	if err != nil || len(w) != 1 {
		t.Fatalf("Generate(1) = %v, %v", w, err)
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeHamming.String(); got != "hamming" {
		t.Fatalf("String() = %q", got)
	}

	if got := Type(99).String(); got != "Type(99)" {
		t.Fatalf("String() = %q", got)
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len mismatch got=%d want=%d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("index %d: got=%.16f want=%.16f", i, got[i], want[i])
		}
	}
}
