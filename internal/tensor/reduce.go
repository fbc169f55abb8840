package tensor

// Sum returns the sum of all elements accumulated in A.
func Sum[A Accumulator, T Number](v *View[T]) A {
	var acc A
	v.ForEach(func(x T) { acc += A(x) })
	return acc
}

// Product returns the product of all elements accumulated in A.
func Product[A Accumulator, T Number](v *View[T]) A {
	acc := A(1)
	v.ForEach(func(x T) { acc *= A(x) })
	return acc
}

// LengthSquared returns the sum of squares accumulated in A.
func LengthSquared[A Accumulator, T Number](v *View[T]) A {
	var acc A
	v.ForEach(func(x T) {
		a := A(x)
		acc += a * a
	})
	return acc
}

// DotProduct returns the element-wise product sum of lhs and rhs accumulated
// in A. It fails when element counts differ.
func DotProduct[A Accumulator, T, U Number](lhs *View[T], rhs *View[U]) (A, bool) {
	var acc A
	l, r := lhs.storage.data, rhs.storage.data
	ok := lhs.PairwiseForEachOffset(&rhs.Layout, func(lo, ro int) {
		acc += A(l[lo]) * A(r[ro])
	})
	return acc, ok
}

// flatTopOne returns the row-major position and value of the first element
// that no later element beats.
func (v *View[T]) flatTopOne(better func(a, b T) bool) (int, T, bool) {
	var (
		top   T
		pos   int
		found bool
		i     int
	)
	v.ForEach(func(x T) {
		if !found || better(x, top) {
			top, pos, found = x, i, true
		}
		i++
	})
	return pos, top, found
}

func greater[T Number](a, b T) bool { return a > b }
func less[T Number](a, b T) bool    { return a < b }

// MaxElement returns the largest element.
func (v *View[T]) MaxElement() (T, bool) {
	_, val, ok := v.flatTopOne(greater[T])
	return val, ok
}

// MinElement returns the smallest element.
func (v *View[T]) MinElement() (T, bool) {
	_, val, ok := v.flatTopOne(less[T])
	return val, ok
}

// ArgMaxElement returns the index of the first largest element.
func (v *View[T]) ArgMaxElement() ([]int, bool) {
	pos, _, ok := v.flatTopOne(greater[T])
	if !ok {
		return nil, false
	}
	return UnravelIndex(v.shape, pos)
}

// ArgMinElement returns the index of the first smallest element.
func (v *View[T]) ArgMinElement() ([]int, bool) {
	pos, _, ok := v.flatTopOne(less[T])
	if !ok {
		return nil, false
	}
	return UnravelIndex(v.shape, pos)
}

// reducePairwise reduces src across dim into dst. For every position of src
// with dim removed, init seeds an accumulator from the first value of the row,
// reduce folds in the remaining values and finalise converts the result for
// storage in dst.
func reducePairwise[T, U Number, A any](
	dst *View[T],
	src *View[U],
	dim int,
	init func(value U) A,
	reduce func(i int, acc A, value U) A,
	finalise func(n int, acc A) T,
) bool {
	reduced := src.Layout.Clone()
	if !reduced.Select(dim, 0) {
		return false
	}
	l, r := dst.storage.data, src.storage.data
	n, stride := src.shape[dim], src.stride[dim]
	return dst.PairwiseForEachOffset(&reduced, func(lo, ro int) {
		acc := init(r[ro])
		for i := 1; i < n; i++ {
			acc = reduce(i, acc, r[ro+i*stride])
		}
		l[lo] = finalise(n, acc)
	})
}

type topOne[U Number] struct {
	index int
	value U
}

func reduceTopOneIndex[T, U Number](dst *View[T], src *View[U], dim int, better func(a, b U) bool) bool {
	return reducePairwise(dst, src, dim,
		func(value U) topOne[U] { return topOne[U]{value: value} },
		func(i int, acc topOne[U], value U) topOne[U] {
			if better(value, acc.value) {
				return topOne[U]{index: i, value: value}
			}
			return acc
		},
		func(_ int, acc topOne[U]) T { return T(acc.index) },
	)
}

func reduceTopOne[T, U Number](dst *View[T], src *View[U], dim int, better func(a, b T) bool) bool {
	return reducePairwise(dst, src, dim,
		func(value U) T { return T(value) },
		func(_ int, acc T, value U) T {
			if better(T(value), acc) {
				return T(value)
			}
			return acc
		},
		func(_ int, acc T) T { return acc },
	)
}

// ArgMax stores in dst the index of the largest value of each row of src
// along dim. dst must hold as many elements as src with dim removed.
func ArgMax[T, U Number](dst *View[T], src *View[U], dim int) bool {
	return reduceTopOneIndex(dst, src, dim, greater[U])
}

// ArgMin stores in dst the index of the smallest value of each row of src
// along dim.
func ArgMin[T, U Number](dst *View[T], src *View[U], dim int) bool {
	return reduceTopOneIndex(dst, src, dim, less[U])
}

// Max stores in dst the largest value of each row of src along dim.
func Max[T, U Number](dst *View[T], src *View[U], dim int) bool {
	return reduceTopOne(dst, src, dim, greater[T])
}

// Min stores in dst the smallest value of each row of src along dim.
func Min[T, U Number](dst *View[T], src *View[U], dim int) bool {
	return reduceTopOne(dst, src, dim, less[T])
}
