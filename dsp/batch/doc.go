// Package batch provides the batched-signal container shared by the
// augmentation engines.
//
// A [Signal] holds rows of equally long samples with arbitrary leading batch
// dimensions: shape batch_dims... × length, stored row-major in a single
// contiguous []float64. Per-row metadata such as valid lengths or SNR values
// is carried by [Vector], whose shape equals the batch shape of the signal it
// describes.
//
// Engines never share mutable state through this package. Row views returned
// by [Signal.Row] alias the signal storage, which lets engines write results
// in place without extra copies.
//
// Leading dimensions of two signals can be combined with numpy-style
// broadcasting via [BroadcastShapes] and [RowMapper].
package batch
