package batch

import "fmt"

// BroadcastShapes combines two batch shapes with numpy broadcasting rules:
// shapes are right-aligned and each dimension pair must be equal or contain a 1.
func BroadcastShapes(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := range n {
		da := dimFromRight(a, n-1-i)
		db := dimFromRight(b, n-1-i)
		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
		case db == 1:
			out[i] = da
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v with %v", ErrShapeMismatch, a, b)
		}
	}

	return out, nil
}

// dimFromRight returns the size of the k-th dimension counted from the
// right end of shape, or 1 if shape has fewer dimensions.
func dimFromRight(shape []int, k int) int {
	idx := len(shape) - 1 - k
	if idx < 0 {
		return 1
	}

	return shape[idx]
}

// RowMapper maps flat row indices of a broadcast batch shape back onto the
// flat row indices of one of its source shapes.
type RowMapper struct {
	out     []int
	strides []int
}

// NewRowMapper builds a mapper from the broadcast shape out to src.
// src must be broadcast-compatible with out.
func NewRowMapper(src, out []int) (RowMapper, error) {
	if len(src) > len(out) {
		return RowMapper{}, fmt.Errorf("%w: %v does not broadcast to %v", ErrShapeMismatch, src, out)
	}

	strides := make([]int, len(out))
	stride := 1
	for k := range out {
		i := len(out) - 1 - k
		d := dimFromRight(src, k)
		switch {
		case d == out[i]:
			strides[i] = stride
		case d == 1:
			strides[i] = 0
		default:
			return RowMapper{}, fmt.Errorf("%w: %v does not broadcast to %v", ErrShapeMismatch, src, out)
		}

		stride *= d
	}

	return RowMapper{out: out, strides: strides}, nil
}

// Map returns the source row index for broadcast row i.
func (m RowMapper) Map(i int) int {
	src := 0
	for d := len(m.out) - 1; d >= 0; d-- {
		n := m.out[d]
		src += (i % n) * m.strides[d]
		i /= n
	}

	return src
}
