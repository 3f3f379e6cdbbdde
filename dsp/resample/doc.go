// Package resample provides rational sample-rate conversion using
// Kaiser-windowed sinc filtering with anti-aliasing defaults.
//
// Two converters share the filter design. Stream is a causal converter that
// keeps history between Process calls. Aligned is an offline converter whose
// output has no group delay, which is what batch speed changes need. The
// filter length scales with max(up, down), so large decimation factors keep
// the nominal stopband.
//
// Quality modes:
//   - QualityFast: lower CPU, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: higher attenuation and flatter passband
//
// Default quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
//
// Common workflows:
//   - NewAligned / NewAlignedForRates for offline, delay-free conversion
//   - NewStream / NewStreamForRates for block-wise input
package resample
