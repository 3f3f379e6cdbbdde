// Package speed changes the playback speed of batched waveforms by
// band-limited resampling.
//
// A factor above 1 shortens the signal and raises every frequency by the
// same factor; a factor below 1 stretches it. Each row is resampled over
// its valid prefix only, and the returned lengths describe how many output
// samples of each row are meaningful:
//
//	out[i] = max(1, round(lengths[i] / factor))
//
// The output time axis is max(out). Samples past out[i] are zero.
//
// Perturbation draws one factor per call from a fixed candidate list,
// which is the usual data augmentation recipe for speech training.
package speed
