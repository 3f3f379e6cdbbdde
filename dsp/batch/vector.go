package batch

import (
	"fmt"
	"slices"
)

// Number is the element constraint for per-row vectors.
type Number interface {
	~int | ~float64
}

// Vector holds one value per batch row. Its shape matches the batch shape
// of the signal it describes; an empty shape holds a single value.
type Vector[T Number] struct {
	shape  []int
	values []T
}

// Lengths holds per-row valid lengths.
type Lengths = Vector[int]

// NewVector copies values into a Vector of the given shape.
func NewVector[T Number](values []T, shape ...int) (*Vector[T], error) {
	n, err := volume(shape)
	if err != nil {
		return nil, err
	}

	if len(values) != n {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidShape, len(values), shape)
	}

	return &Vector[T]{shape: slices.Clone(shape), values: slices.Clone(values)}, nil
}

// NewLengths is NewVector for valid-length vectors.
func NewLengths(values []int, shape ...int) (*Lengths, error) {
	return NewVector(values, shape...)
}

// Full returns a Vector of the given shape with every element set to v.
func Full[T Number](v T, shape ...int) *Vector[T] {
	n, err := volume(shape)
	if err != nil {
		n = 0
	}

	values := make([]T, n)
	for i := range values {
		values[i] = v
	}

	return &Vector[T]{shape: slices.Clone(shape), values: values}
}

// Shape returns a copy of the vector shape.
func (v *Vector[T]) Shape() []int {
	return slices.Clone(v.shape)
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return len(v.values)
}

// At returns element i in row-major order.
func (v *Vector[T]) At(i int) T {
	return v.values[i]
}

// Values returns a copy of the elements.
func (v *Vector[T]) Values() []T {
	return slices.Clone(v.values)
}

// Max returns the largest element, or zero for an empty vector.
func (v *Vector[T]) Max() T {
	if len(v.values) == 0 {
		return 0
	}

	return slices.Max(v.values)
}

// Clone returns a deep copy.
func (v *Vector[T]) Clone() *Vector[T] {
	return &Vector[T]{shape: slices.Clone(v.shape), values: slices.Clone(v.values)}
}

// Describes reports whether v has exactly the batch shape of s.
func (v *Vector[T]) Describes(s *Signal) bool {
	return slices.Equal(v.shape, s.shape[:len(s.shape)-1])
}
