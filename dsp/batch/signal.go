package batch

import (
	"fmt"
	"slices"
)

// Signal is a batch of equally long sample rows.
// The last dimension of the shape is the time axis.
type Signal struct {
	shape []int
	data  []float64
}

// New returns a zero-filled Signal with the given shape.
// The shape must have rank >= 1 and a time axis of at least one sample.
func New(shape ...int) (*Signal, error) {
	n, err := signalSize(shape)
	if err != nil {
		return nil, err
	}

	return &Signal{shape: slices.Clone(shape), data: make([]float64, n)}, nil
}

// FromSlice wraps data without copying.
// Mutations to data are visible through the Signal and vice versa.
func FromSlice(data []float64, shape ...int) (*Signal, error) {
	n, err := signalSize(shape)
	if err != nil {
		return nil, err
	}

	if len(data) != n {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidShape, len(data), shape)
	}

	return &Signal{shape: slices.Clone(shape), data: data}, nil
}

// FromRows copies rows into a new Signal of shape (len(rows), len(rows[0])).
func FromRows(rows [][]float64) (*Signal, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidShape)
	}

	length := len(rows[0])
	s, err := New(len(rows), length)
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		if len(r) != length {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrShapeMismatch, i, len(r), length)
		}

		copy(s.Row(i), r)
	}

	return s, nil
}

// Shape returns a copy of the full shape.
func (s *Signal) Shape() []int {
	return slices.Clone(s.shape)
}

// BatchShape returns a copy of the leading (non-time) dimensions.
func (s *Signal) BatchShape() []int {
	return slices.Clone(s.shape[:len(s.shape)-1])
}

// Rank returns the number of dimensions including the time axis.
func (s *Signal) Rank() int {
	return len(s.shape)
}

// Len returns the size of the time axis.
func (s *Signal) Len() int {
	return s.shape[len(s.shape)-1]
}

// Rows returns the number of rows, the product of the batch dimensions.
func (s *Signal) Rows() int {
	return len(s.data) / s.Len()
}

// Row returns a view of row i. Writes go to the signal storage.
func (s *Signal) Row(i int) []float64 {
	n := s.Len()
	return s.data[i*n : (i+1)*n : (i+1)*n]
}

// Data returns the underlying row-major storage.
func (s *Signal) Data() []float64 {
	return s.data
}

// Clone returns a deep copy.
func (s *Signal) Clone() *Signal {
	return &Signal{shape: slices.Clone(s.shape), data: slices.Clone(s.data)}
}

// Reshape returns a view with a different shape and the same element count.
func (s *Signal) Reshape(shape ...int) (*Signal, error) {
	return FromSlice(s.data, shape...)
}

func signalSize(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("%w: signal needs a time axis", ErrInvalidShape)
	}

	if shape[len(shape)-1] < 1 {
		return 0, fmt.Errorf("%w: time axis must be >= 1: %v", ErrInvalidShape, shape)
	}

	return volume(shape)
}

func volume(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}

		n *= d
	}

	return n, nil
}
