package tensor

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// MMul stores the matrix product lhs x rhs in dst. All three views must be
// rank 2 with shapes [n, k], [k, m] and [n, m]. When dst shares storage with
// either operand the product is evaluated into a temporary first.
func MMul[T Number](dst, lhs, rhs *View[T]) bool {
	if lhs.Rank() != 2 || rhs.Rank() != 2 || dst.Rank() != 2 ||
		lhs.shape[1] != rhs.shape[0] ||
		dst.shape[0] != lhs.shape[0] || dst.shape[1] != rhs.shape[1] {
		return false
	}
	n, k, m := lhs.shape[0], lhs.shape[1], rhs.shape[1]
	if n == 0 || m == 0 {
		return true
	}
	if k == 0 {
		dst.Assign(0)
		return true
	}

	a, b := denseOf(lhs), denseOf(rhs)
	aliased := dst.SameStorage(lhs) || dst.SameStorage(rhs)
	if out, ok := rawDense(dst); ok && !aliased {
		out.Mul(a, b)
		return true
	}

	var product mat.Dense
	product.Mul(a, b)
	data := dst.storage.data
	dst.ForEachIndexedOffset(func(index []int, offset int) {
		data[offset] = T(product.At(index[0], index[1]))
	})
	return true
}

// rawDense wraps a float64 view whose rows are unit-stride as a mat.Dense
// sharing its storage.
func rawDense[T Number](v *View[T]) (*mat.Dense, bool) {
	data, ok := any(v.storage.data).([]float64)
	if !ok {
		return nil, false
	}
	rows, cols := v.shape[0], v.shape[1]
	if v.stride[1] != 1 || v.stride[0] < cols || rows == 0 || cols == 0 {
		return nil, false
	}
	var d mat.Dense
	d.SetRawMatrix(blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: v.stride[0],
		Data:   data[v.offset : v.offset+(rows-1)*v.stride[0]+cols],
	})
	return &d, true
}

// denseOf returns a matrix holding the elements of a rank-2 view, sharing
// storage when the layout allows it.
func denseOf[T Number](v *View[T]) mat.Matrix {
	if d, ok := rawDense(v); ok {
		return d
	}
	rows, cols := v.shape[0], v.shape[1]
	values := make([]float64, 0, rows*cols)
	v.ForEach(func(x T) { values = append(values, float64(x)) })
	return mat.NewDense(rows, cols, values)
}
