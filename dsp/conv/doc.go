// Package conv provides batched and single-pair linear convolution.
//
// Two algorithmically distinct engines compute the same operation and are
// expected to agree to floating-point rounding:
//
//   - [DirectEngine]: O(N*M) direct summation, vectorized with algo-vecmath
//   - [FFTEngine]: zero-padded FFT multiplication using algo-fft plans
//
// # Usage
//
// Single pairs:
//
//	full, err := conv.Direct(signal, kernel)
//	same, err := conv.FFTConvolve(signal, kernel, conv.ModeSame)
//
// Batches with arbitrary leading dimensions (broadcast numpy-style):
//
//	out, err := conv.ConvolveBatch(x, y, conv.ModeValid)
//	out, err := conv.FFTConvolveBatch(x, y, conv.ModeFull)
//
// A [Transform] keeps the mode and engine for repeated calls:
//
//	tr, err := conv.NewTransform(conv.ModeSame, conv.NewFFTEngine())
//	out, err := tr.Apply(x, y)
//
// # Modes
//
//   - ModeFull: len(x)+len(y)-1 samples
//   - ModeSame: len(x) samples, centered on the full result
//   - ModeValid: max(len(x),len(y))-min(len(x),len(y))+1 samples; operands
//     are swapped internally when len(x) < len(y)
//
// For long signals convolved repeatedly with one kernel, [OverlapAdd]
// processes the signal in FFT-sized blocks.
package conv
