package conv

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-augment/dsp/batch"
	"github.com/cwbudde/algo-augment/internal/testutil"
)

// referenceConvolve is an independent oracle: an exact-size gonum FFT
// followed by numpy-style centering of the requested mode.
func referenceConvolve(a, b []float64, mode Mode) []float64 {
	n := len(a) + len(b) - 1
	fft := fourier.NewFFT(n)

	pa := make([]float64, n)
	pb := make([]float64, n)
	copy(pa, a)
	copy(pb, b)

	ca := fft.Coefficients(nil, pa)
	cb := fft.Coefficients(nil, pb)
	for i := range ca {
		ca[i] *= cb[i]
	}

	full := fft.Sequence(nil, ca)
	for i := range full {
		full[i] /= float64(n)
	}

	var keep int
	switch mode {
	case ModeSame:
		keep = len(a)
	case ModeValid:
		keep = max(len(a), len(b)) - min(len(a), len(b)) + 1
	default:
		return full
	}

	start := (n - keep) / 2

	return full[start : start+keep]
}

var (
	leadingDims = [][]int{{10, 4}, {4, 3, 1, 2}, {2}, {}}
	pairLengths = [][2]int{{100, 43}, {21, 45}}
	allModes    = []Mode{ModeFull, ModeValid, ModeSame}
)

func TestBatchMatchesReference(t *testing.T) {
	engines := map[string]func(x, y *batch.Signal, mode Mode) (*batch.Signal, error){
		"direct": ConvolveBatch,
		"fft":    FFTConvolveBatch,
	}

	for name, fn := range engines {
		for _, dims := range leadingDims {
			for _, l := range pairLengths {
				for _, mode := range allModes {
					t.Run(fmt.Sprintf("%s/%v/%v/%v", name, dims, l, mode), func(t *testing.T) {
						x := testutil.UniformSignal(1, append(append([]int{}, dims...), l[0])...)
						y := testutil.UniformSignal(2, append(append([]int{}, dims...), l[1])...)

						out, err := fn(x, y, mode)
						if err != nil {
							t.Fatalf("convolution failed: %v", err)
						}

						wantShape := append(append([]int{}, dims...), mode.OutputLen(l[0], l[1]))
						gotShape := out.Shape()
						if fmt.Sprint(gotShape) != fmt.Sprint(wantShape) {
							t.Fatalf("shape = %v, want %v", gotShape, wantShape)
						}

						for r := range out.Rows() {
							want := referenceConvolve(x.Row(r), y.Row(r), mode)
							testutil.RequireSliceNearlyEqual(t, out.Row(r), want, 1e-9)
						}
					})
				}
			}
		}
	}
}

func TestDirectAndFFTEnginesAgree(t *testing.T) {
	x := testutil.UniformSignal(40, 2, 3, 2, 32)
	y := testutil.UniformSignal(41, 2, 3, 2, 55)

	for _, mode := range allModes {
		direct, err := ConvolveBatch(x, y, mode)
		if err != nil {
			t.Fatalf("ConvolveBatch failed: %v", err)
		}

		fft, err := FFTConvolveBatch(x, y, mode)
		if err != nil {
			t.Fatalf("FFTConvolveBatch failed: %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, fft.Data(), direct.Data(), 1e-9)
	}
}

func TestBatchIndependence(t *testing.T) {
	x := testutil.UniformSignal(5, 6, 50)
	y := testutil.UniformSignal(6, 6, 9)

	for _, mode := range allModes {
		whole, err := ConvolveBatch(x, y, mode)
		if err != nil {
			t.Fatalf("ConvolveBatch failed: %v", err)
		}

		for r := range x.Rows() {
			xr, _ := batch.FromSlice(x.Row(r), x.Len())
			yr, _ := batch.FromSlice(y.Row(r), y.Len())

			single, err := ConvolveBatch(xr, yr, mode)
			if err != nil {
				t.Fatalf("ConvolveBatch failed: %v", err)
			}

			got := whole.Row(r)
			for i, v := range single.Data() {
				if got[i] != v {
					t.Fatalf("%v row %d index %d: batched %v, single %v", mode, r, i, got[i], v)
				}
			}
		}
	}
}

func TestBatchBroadcast(t *testing.T) {
	x := testutil.UniformSignal(11, 4, 1, 20)
	y := testutil.UniformSignal(12, 3, 7)

	out, err := FFTConvolveBatch(x, y, ModeFull)
	if err != nil {
		t.Fatalf("FFTConvolveBatch failed: %v", err)
	}

	if got := out.Shape(); fmt.Sprint(got) != "[4 3 26]" {
		t.Fatalf("shape = %v, want [4 3 26]", got)
	}

	for i := range 4 {
		for j := range 3 {
			want := referenceConvolve(x.Row(i), y.Row(j), ModeFull)
			testutil.RequireSliceNearlyEqual(t, out.Row(i*3+j), want, 1e-9)
		}
	}
}

func TestBatchErrors(t *testing.T) {
	x := testutil.UniformSignal(1, 2, 10)
	y := testutil.UniformSignal(2, 3, 10)

	if _, err := ConvolveBatch(x, y, ModeFull); !errors.Is(err, batch.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}

	if _, err := ConvolveBatch(x, x, Mode(7)); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}

	if _, err := FFTConvolveBatch(nil, x, ModeFull); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}

	if _, err := FFTConvolveBatch(x, nil, ModeFull); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestTransform(t *testing.T) {
	x := testutil.UniformSignal(21, 3, 40)
	y := testutil.UniformSignal(22, 3, 8)

	direct, err := NewTransform(ModeSame, nil, WithWorkers(1))
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	fft, err := NewTransform(ModeSame, NewFFTEngine())
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	if direct.Mode() != ModeSame {
		t.Fatalf("Mode() = %v, want same", direct.Mode())
	}

	a, err := direct.Apply(x, y)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	b, err := fft.Apply(x, y)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if a.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", a.Len())
	}

	testutil.RequireSliceNearlyEqual(t, b.Data(), a.Data(), 1e-9)

	if _, err := NewTransform(Mode(5), nil); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}
