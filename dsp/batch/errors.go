package batch

import "errors"

// Errors returned by batch helpers.
var (
	ErrInvalidShape  = errors.New("batch: invalid shape")
	ErrShapeMismatch = errors.New("batch: shape mismatch")
)
