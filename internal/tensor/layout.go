// Package tensor provides strided N-dimensional views over shared storage.
// A Layout describes how a multi index maps onto a flat buffer; a View pairs
// a Layout with the buffer. Views never copy on Select, Narrow, Reverse,
// Transpose or Reshape, so many views may address the same storage.
package tensor

import (
	"fmt"
	"slices"
)

// Layout maps multi indices onto offsets of a flat buffer.
// Shape and stride always have the same length.
type Layout struct {
	shape  []int
	stride []int
	offset int
}

// NewLayout returns a row-major layout for shape with offset 0.
func NewLayout(shape ...int) Layout {
	s := slices.Clone(shape)
	return Layout{
		shape:  s,
		stride: rowMajorStrides(s, 1),
	}
}

// NewLayoutStrided returns a layout with explicit strides and start offset.
func NewLayoutStrided(shape, stride []int, offset int) (Layout, error) {
	if len(shape) != len(stride) {
		return Layout{}, fmt.Errorf("tensor: shape rank %d does not match stride rank %d", len(shape), len(stride))
	}
	for i, s := range shape {
		if s < 0 {
			return Layout{}, fmt.Errorf("tensor: negative size %d in dimension %d", s, i)
		}
	}
	if offset < 0 {
		return Layout{}, fmt.Errorf("tensor: negative offset %d", offset)
	}
	return Layout{
		shape:  slices.Clone(shape),
		stride: slices.Clone(stride),
		offset: offset,
	}, nil
}

// rowMajorStrides computes the exclusive product scan of shape from the back,
// starting at base.
func rowMajorStrides(shape []int, base int) []int {
	stride := make([]int, len(shape))
	acc := base
	for i := len(shape) - 1; i >= 0; i-- {
		stride[i] = acc
		acc *= shape[i]
	}
	return stride
}

// NumElements returns the product of the shape. An empty shape holds one element.
func NumElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	return Layout{
		shape:  slices.Clone(l.shape),
		stride: slices.Clone(l.stride),
		offset: l.offset,
	}
}

// Shape returns a copy of the shape.
func (l *Layout) Shape() []int {
	return slices.Clone(l.shape)
}

// Stride returns a copy of the strides.
func (l *Layout) Stride() []int {
	return slices.Clone(l.stride)
}

// Rank returns the number of dimensions.
func (l *Layout) Rank() int {
	return len(l.shape)
}

// Dim returns the size of dimension d.
func (l *Layout) Dim(d int) int {
	return l.shape[d]
}

// Offset returns the start offset into storage.
func (l *Layout) Offset() int {
	return l.offset
}

// NumElements returns the number of addressable elements.
func (l *Layout) NumElements() int {
	return NumElements(l.shape)
}

// IsContiguous reports whether the strides are exactly the row-major strides
// of the shape, i.e. the elements occupy consecutive offsets.
func (l *Layout) IsContiguous() bool {
	acc := 1
	for i := len(l.shape) - 1; i >= 0; i-- {
		if l.stride[i] != acc {
			return false
		}
		acc *= l.shape[i]
	}
	return true
}

// ContiguousStride returns the fixed distance between consecutive offsets
// in row-major order, or 0 when there is none. An empty shape returns 1.
func (l *Layout) ContiguousStride() int {
	n := len(l.shape)
	if n == 0 {
		return 1
	}
	acc := l.stride[n-1]
	for ri := n - 2; ri >= 0; ri-- {
		acc *= l.shape[ri+1]
		if l.stride[ri] != acc {
			return 0
		}
	}
	return l.stride[n-1]
}

// GetOffset returns the storage offset of index. It fails when the index rank
// differs from the layout rank or any component is out of bounds.
func (l *Layout) GetOffset(index []int) (int, bool) {
	if len(index) != len(l.stride) {
		return 0, false
	}
	offset := l.offset
	for i, idx := range index {
		if idx < 0 || idx >= l.shape[i] {
			return 0, false
		}
		offset += idx * l.stride[i]
	}
	return offset, true
}

// UnravelIndex converts a row-major flat position into a multi index for shape.
func UnravelIndex(shape []int, flat int) ([]int, bool) {
	total := NumElements(shape)
	if flat < 0 || flat >= total {
		return nil, false
	}
	index := make([]int, len(shape))
	for i, s := range shape {
		total /= s
		index[i] = flat / total
		flat -= index[i] * total
	}
	return index, true
}

// Select fixes dimension dim at index and removes that dimension.
func (l *Layout) Select(dim, index int) bool {
	if dim < 0 || dim >= len(l.shape) || index < 0 || index >= l.shape[dim] {
		return false
	}
	l.offset += l.stride[dim] * index
	l.shape = slices.Delete(slices.Clone(l.shape), dim, dim+1)
	l.stride = slices.Delete(slices.Clone(l.stride), dim, dim+1)
	return true
}

// Narrow restricts dimension dim to the range [index, index+size).
func (l *Layout) Narrow(dim, index, size int) bool {
	if dim < 0 || dim >= len(l.shape) || index < 0 || size < 0 ||
		index >= l.shape[dim] || index+size > l.shape[dim] {
		return false
	}
	l.offset += l.stride[dim] * index
	l.shape = slices.Clone(l.shape)
	l.shape[dim] = size
	return true
}

// Reverse flips the iteration order of dimension dim.
func (l *Layout) Reverse(dim int) bool {
	if dim < 0 || dim >= len(l.shape) {
		return false
	}
	if l.shape[dim] > 0 {
		l.offset += l.stride[dim] * (l.shape[dim] - 1)
	}
	l.stride = slices.Clone(l.stride)
	l.stride[dim] = -l.stride[dim]
	return true
}

// Transpose swaps dimensions dim0 and dim1.
func (l *Layout) Transpose(dim0, dim1 int) bool {
	n := len(l.shape)
	if dim0 < 0 || dim0 >= n || dim1 < 0 || dim1 >= n {
		return false
	}
	l.shape = slices.Clone(l.shape)
	l.stride = slices.Clone(l.stride)
	l.shape[dim0], l.shape[dim1] = l.shape[dim1], l.shape[dim0]
	l.stride[dim0], l.stride[dim1] = l.stride[dim1], l.stride[dim0]
	return true
}

// Reshape changes the shape while keeping the element order. It only succeeds
// when the element count is unchanged and the layout has a contiguous stride.
func (l *Layout) Reshape(shape ...int) bool {
	if NumElements(shape) != l.NumElements() {
		return false
	}
	for _, s := range shape {
		if s < 0 {
			return false
		}
	}
	back := l.ContiguousStride()
	if back == 0 {
		return false
	}
	l.shape = slices.Clone(shape)
	l.stride = rowMajorStrides(l.shape, back)
	return true
}

// cursor walks a layout in row-major order, last dimension fastest.
type cursor struct {
	layout *Layout
	index  []int
	offset int
}

func (l *Layout) newCursor() cursor {
	return cursor{
		layout: l,
		index:  make([]int, len(l.shape)),
		offset: l.offset,
	}
}

// next advances to the following element. It must not be called more than
// NumElements-1 times.
func (c *cursor) next() {
	shape, stride := c.layout.shape, c.layout.stride
	d := len(shape) - 1
	c.index[d]++
	c.offset += stride[d]
	for ; d != 0 && c.index[d] == shape[d]; d-- {
		c.offset -= stride[d] * shape[d]
		c.index[d] = 0
		c.offset += stride[d-1]
		c.index[d-1]++
	}
}

// ForEachIndexedOffset calls f with every multi index and its offset in
// row-major order. The index slice is reused between calls.
func (l *Layout) ForEachIndexedOffset(f func(index []int, offset int)) {
	n := l.NumElements()
	c := l.newCursor()
	for i := 0; i < n; i++ {
		f(c.index, c.offset)
		if i+1 < n {
			c.next()
		}
	}
}

// ForEachOffset calls f with every offset in row-major order.
func (l *Layout) ForEachOffset(f func(offset int)) {
	n := l.NumElements()
	if contig := l.ContiguousStride(); contig != 0 {
		for i := 0; i < n; i++ {
			f(l.offset + i*contig)
		}
		return
	}
	c := l.newCursor()
	for i := 0; i < n; i++ {
		f(c.offset)
		if i+1 < n {
			c.next()
		}
	}
}

// PairwiseForEachOffset walks l and rhs in lock step, calling f with matching
// offsets. It returns false without calling f when the element counts differ.
func (l *Layout) PairwiseForEachOffset(rhs *Layout, f func(lhsOffset, rhsOffset int)) bool {
	return l.AllOf(rhs, func(lo, ro int) bool {
		f(lo, ro)
		return true
	})
}

// AllOf walks l and rhs in lock step and reports whether pred holds for every
// pair of offsets. It stops at the first failure and returns false when the
// element counts differ.
func (l *Layout) AllOf(rhs *Layout, pred func(lhsOffset, rhsOffset int) bool) bool {
	n := l.NumElements()
	if n != rhs.NumElements() {
		return false
	}
	lc, rc := l.ContiguousStride(), rhs.ContiguousStride()
	switch {
	case lc != 0 && rc != 0:
		for i := 0; i < n; i++ {
			if !pred(l.offset+i*lc, rhs.offset+i*rc) {
				return false
			}
		}
	case lc != 0:
		r := rhs.newCursor()
		for i := 0; i < n; i++ {
			if !pred(l.offset+i*lc, r.offset) {
				return false
			}
			if i+1 < n {
				r.next()
			}
		}
	case rc != 0:
		c := l.newCursor()
		for i := 0; i < n; i++ {
			if !pred(c.offset, rhs.offset+i*rc) {
				return false
			}
			if i+1 < n {
				c.next()
			}
		}
	default:
		c, r := l.newCursor(), rhs.newCursor()
		for i := 0; i < n; i++ {
			if !pred(c.offset, r.offset) {
				return false
			}
			if i+1 < n {
				c.next()
				r.next()
			}
		}
	}
	return true
}

// span returns the lowest and highest offsets the layout can address.
// ok is false for layouts with no elements.
func (l *Layout) span() (lo, hi int, ok bool) {
	if l.NumElements() == 0 {
		return 0, 0, false
	}
	lo, hi = l.offset, l.offset
	for i, s := range l.shape {
		reach := l.stride[i] * (s - 1)
		if reach < 0 {
			lo += reach
		} else {
			hi += reach
		}
	}
	return lo, hi, true
}
