package layout

import "fmt"

// Linear converts an index tuple to an element number. idx[0] selects
// along the first axis, which varies fastest.
func Linear(shape, idx []int64) (int64, error) {
	if len(idx) != len(shape) {
		return 0, &BoundsError{Index: idx, Shape: shape}
	}
	var n int64
	for d := len(shape) - 1; d >= 0; d-- {
		if idx[d] < 0 || idx[d] >= shape[d] {
			return 0, &BoundsError{Index: idx, Shape: shape}
		}
		n = n*shape[d] + idx[d]
	}
	return n, nil
}

// Count returns the number of elements in an array of the given shape.
// A zero-dimensional shape holds no elements.
func Count(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

// ReadSlice reads the sub-array of count elements per axis starting at
// start from an array of the given shape stored in the data unit. The
// result keeps FITS order: the first axis varies fastest.
func (c *Contiguous) ReadSlice(shape, start, count []int64, elemSize int) ([]byte, error) {
	ndims := len(shape)
	if ndims == 0 {
		return nil, fmt.Errorf("cannot slice an array without axes")
	}
	if len(start) != ndims || len(count) != ndims {
		return nil, &BoundsError{Index: start, Shape: shape}
	}
	for d := 0; d < ndims; d++ {
		if start[d] < 0 || count[d] < 0 || start[d] > shape[d] || count[d] > shape[d]-start[d] {
			return nil, &BoundsError{Index: start, Shape: shape}
		}
	}

	total := Count(count)
	result := make([]byte, total*int64(elemSize))
	if total == 0 {
		return result, nil
	}

	// Byte strides per axis in the source and the result.
	srcStrides := make([]int64, ndims)
	dstStrides := make([]int64, ndims)
	srcStrides[0], dstStrides[0] = int64(elemSize), int64(elemSize)
	for d := 1; d < ndims; d++ {
		srcStrides[d] = srcStrides[d-1] * shape[d-1]
		dstStrides[d] = dstStrides[d-1] * count[d-1]
	}

	s := slicer{c: c, dst: result, start: start, count: count, srcStrides: srcStrides, dstStrides: dstStrides}
	return result, s.copy(ndims-1, 0, 0)
}

type slicer struct {
	c                      *Contiguous
	dst                    []byte
	start, count           []int64
	srcStrides, dstStrides []int64
}

// copy walks axes from slowest to fastest; the first axis is one read.
func (s slicer) copy(dim int, srcOffset, dstOffset int64) error {
	if dim == 0 {
		n := s.count[0] * s.srcStrides[0]
		src := srcOffset + s.start[0]*s.srcStrides[0]
		return s.c.ReadInto(s.dst[dstOffset:dstOffset+n], src)
	}
	for i := int64(0); i < s.count[dim]; i++ {
		err := s.copy(dim-1,
			srcOffset+(s.start[dim]+i)*s.srcStrides[dim],
			dstOffset+i*s.dstStrides[dim])
		if err != nil {
			return err
		}
	}
	return nil
}
