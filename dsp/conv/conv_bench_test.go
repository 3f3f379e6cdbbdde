package conv

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-augment/internal/testutil"
)

func BenchmarkDirect(b *testing.B) {
	sizes := []struct {
		signal int
		kernel int
	}{
		{256, 8},
		{1024, 32},
		{4096, 64},
	}

	for _, size := range sizes {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Direct(signal, kernel)
			}
		})
	}
}

func BenchmarkFFTConvolve(b *testing.B) {
	sizes := []struct {
		signal int
		kernel int
	}{
		{1024, 64},
		{4096, 256},
		{16384, 1024},
	}

	for _, size := range sizes {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = FFTConvolve(signal, kernel, ModeFull)
			}
		})
	}
}

func BenchmarkBatch(b *testing.B) {
	x := testutil.UniformSignal(1, 32, 4096)
	y := testutil.UniformSignal(2, 32, 128)

	b.Run("direct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ConvolveBatch(x, y, ModeSame)
		}
	})

	b.Run("fft", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = FFTConvolveBatch(x, y, ModeSame)
		}
	})
}

func makeTestSignal(n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 64)
	}

	return signal
}

func makeTestKernel(n int) []float64 {
	kernel := make([]float64, n)
	for i := range kernel {
		kernel[i] = math.Exp(-float64(i) / float64(n/4+1))
	}

	return kernel
}
