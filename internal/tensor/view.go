package tensor

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// View addresses elements of a shared Storage through a Layout.
// The embedded Layout's transforms (Select, Narrow, Reverse, Transpose,
// Reshape) change which elements the view addresses, never the data.
type View[T Number] struct {
	Layout
	storage *Storage[T]
}

// Element type aliases used by the renderer and the environment.
type (
	ByteView   = View[uint8]
	CharView   = View[int8]
	Int16View  = View[int16]
	Int32View  = View[int32]
	Int64View  = View[int64]
	FloatView  = View[float32]
	DoubleView = View[float64]
)

// Rand is the random source used by Shuffle. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// New allocates zeroed contiguous storage for shape and returns a view of it.
func New[T Number](shape ...int) *View[T] {
	return &View[T]{
		Layout:  NewLayout(shape...),
		storage: NewStorage[T](NumElements(shape)),
	}
}

// FromSlice returns a row-major view over data. data is not copied.
func FromSlice[T Number](data []T, shape ...int) (*View[T], error) {
	if n := NumElements(shape); len(data) < n {
		return nil, fmt.Errorf("tensor: buffer of %d elements too small for shape %v", len(data), shape)
	}
	return &View[T]{
		Layout:  NewLayout(shape...),
		storage: WrapStorage(data),
	}, nil
}

// NewView returns a view of storage through layout and takes a reference on
// storage. Every addressable offset must lie inside the buffer.
func NewView[T Number](layout Layout, storage *Storage[T]) (*View[T], error) {
	if lo, hi, ok := layout.span(); ok && (lo < 0 || hi >= storage.Len()) {
		return nil, fmt.Errorf("tensor: layout addresses [%d, %d] outside storage of %d elements", lo, hi, storage.Len())
	}
	return &View[T]{
		Layout:  layout.Clone(),
		storage: storage.Retain(),
	}, nil
}

// Storage returns the shared buffer handle.
func (v *View[T]) Storage() *Storage[T] {
	return v.storage
}

// Data returns the raw backing slice, addressed through Offset and Stride.
func (v *View[T]) Data() []T {
	return v.storage.data
}

// Share returns a second view with the same layout over the same storage.
func (v *View[T]) Share() *View[T] {
	return &View[T]{
		Layout:  v.Layout.Clone(),
		storage: v.storage.Retain(),
	}
}

// Release drops this view's reference on its storage.
func (v *View[T]) Release() {
	v.storage.Release()
}

// Clone copies the addressed elements into fresh contiguous storage.
func (v *View[T]) Clone() *View[T] {
	out := New[T](v.shape...)
	CAssign(out, v)
	return out
}

// SameStorage reports whether v and other address the same buffer.
func (v *View[T]) SameStorage(other *View[T]) bool {
	return v.storage == other.storage
}

// At returns the element at index.
func (v *View[T]) At(index ...int) (T, bool) {
	offset, ok := v.GetOffset(index)
	if !ok {
		var zero T
		return zero, false
	}
	return v.storage.data[offset], true
}

// Set stores value at index.
func (v *View[T]) Set(index []int, value T) bool {
	offset, ok := v.GetOffset(index)
	if !ok {
		return false
	}
	v.storage.data[offset] = value
	return true
}

// AtFlat returns element i of a rank-1 view.
func (v *View[T]) AtFlat(i int) (T, bool) {
	if len(v.shape) != 1 || i < 0 || i >= v.shape[0] {
		var zero T
		return zero, false
	}
	return v.storage.data[v.offset+i*v.stride[0]], true
}

// SetFlat stores value at element i of a rank-1 view.
func (v *View[T]) SetFlat(i int, value T) bool {
	if len(v.shape) != 1 || i < 0 || i >= v.shape[0] {
		return false
	}
	v.storage.data[v.offset+i*v.stride[0]] = value
	return true
}

// ForEach calls f with every element in row-major order.
func (v *View[T]) ForEach(f func(T)) {
	data := v.storage.data
	v.ForEachOffset(func(offset int) { f(data[offset]) })
}

// ForEachMutable calls f with a pointer to every element in row-major order.
func (v *View[T]) ForEachMutable(f func(*T)) {
	data := v.storage.data
	v.ForEachOffset(func(offset int) { f(&data[offset]) })
}

// ForEachIndexed calls f with every index and element in row-major order.
func (v *View[T]) ForEachIndexed(f func(index []int, value T)) {
	data := v.storage.data
	v.ForEachIndexedOffset(func(index []int, offset int) { f(index, data[offset]) })
}

// ForEachIndexedMutable calls f with every index and a pointer to its element.
func (v *View[T]) ForEachIndexedMutable(f func(index []int, value *T)) {
	data := v.storage.data
	v.ForEachIndexedOffset(func(index []int, offset int) { f(index, &data[offset]) })
}

// Assign sets every element to value.
func (v *View[T]) Assign(value T) {
	v.ForEachMutable(func(p *T) { *p = value })
}

// Mul multiplies every element by value.
func (v *View[T]) Mul(value T) {
	v.ForEachMutable(func(p *T) { *p = apply(*p, value, opMul) })
}

// Add adds value to every element.
func (v *View[T]) Add(value T) {
	v.ForEachMutable(func(p *T) { *p = apply(*p, value, opAdd) })
}

// Div divides every element by value.
func (v *View[T]) Div(value T) {
	v.ForEachMutable(func(p *T) { *p = apply(*p, value, opDiv) })
}

// Sub subtracts value from every element.
func (v *View[T]) Sub(value T) {
	v.ForEachMutable(func(p *T) { *p = apply(*p, value, opSub) })
}

// Floor rounds every element down. Integer views are unchanged.
func (v *View[T]) Floor() {
	v.roundWith(math.Floor)
}

// Ceil rounds every element up. Integer views are unchanged.
func (v *View[T]) Ceil() {
	v.roundWith(math.Ceil)
}

// Round rounds every element to the nearest integer, halves away from zero.
// Integer views are unchanged.
func (v *View[T]) Round() {
	v.roundWith(math.Round)
}

func (v *View[T]) roundWith(fn func(float64) float64) {
	if !isFloat[T]() {
		return
	}
	v.ForEachMutable(func(p *T) { *p = T(fn(float64(*p))) })
}

// Shuffle permutes the elements of a rank-1 view uniformly at random.
func (v *View[T]) Shuffle(r Rand) bool {
	if len(v.shape) != 1 {
		return false
	}
	data, stride, e := v.storage.data, v.stride[0], v.shape[0]
	for i := 1; i < e; i++ {
		k := e - i
		j := r.IntN(k + 1)
		a, b := v.offset+stride*k, v.offset+stride*j
		data[a], data[b] = data[b], data[a]
	}
	return true
}

// Equal reports whether other has the same shape and the same elements.
func (v *View[T]) Equal(other *View[T]) bool {
	if !slices.Equal(v.shape, other.shape) {
		return false
	}
	l, r := v.storage.data, other.storage.data
	return v.AllOf(&other.Layout, func(lo, ro int) bool {
		return l[lo] == r[ro]
	})
}

// String renders the view with long dimensions elided.
func (v *View[T]) String() string {
	var sb strings.Builder
	data := v.storage.data
	v.format(&sb, DefaultMaxPrintElements, func(offset int) string {
		return fmt.Sprint(data[offset])
	})
	return sb.String()
}

// ComponentOp walks dst and src in lock step, calling op with a pointer into
// dst and the matching value of src. It fails when element counts differ.
func ComponentOp[T, U Number](dst *View[T], src *View[U], op func(lhs *T, rhs U)) bool {
	l, r := dst.storage.data, src.storage.data
	return dst.PairwiseForEachOffset(&src.Layout, func(lo, ro int) {
		op(&l[lo], r[ro])
	})
}

// CAssign copies src into dst element-wise, converting element types.
func CAssign[T, U Number](dst *View[T], src *View[U]) bool {
	return ComponentOp(dst, src, func(l *T, r U) { *l = T(r) })
}

// CMul multiplies dst by src element-wise.
func CMul[T, U Number](dst *View[T], src *View[U]) bool {
	return ComponentOp(dst, src, func(l *T, r U) { *l = apply(*l, r, opMul) })
}

// CAdd adds src to dst element-wise.
func CAdd[T, U Number](dst *View[T], src *View[U]) bool {
	return ComponentOp(dst, src, func(l *T, r U) { *l = apply(*l, r, opAdd) })
}

// CDiv divides dst by src element-wise.
func CDiv[T, U Number](dst *View[T], src *View[U]) bool {
	return ComponentOp(dst, src, func(l *T, r U) { *l = apply(*l, r, opDiv) })
}

// CSub subtracts src from dst element-wise.
func CSub[T, U Number](dst *View[T], src *View[U]) bool {
	return ComponentOp(dst, src, func(l *T, r U) { *l = apply(*l, r, opSub) })
}

type binaryOp int

const (
	opMul binaryOp = iota
	opAdd
	opDiv
	opSub
)

// apply evaluates l op r in float64 when either side is floating point and in
// int64 otherwise, then converts back to T.
func apply[T, U Number](l T, r U, op binaryOp) T {
	if isFloat[T]() || isFloat[U]() {
		a, b := float64(l), float64(r)
		switch op {
		case opMul:
			return T(a * b)
		case opAdd:
			return T(a + b)
		case opDiv:
			return T(a / b)
		default:
			return T(a - b)
		}
	}
	a, b := int64(l), int64(r)
	switch op {
	case opMul:
		return T(a * b)
	case opAdd:
		return T(a + b)
	case opDiv:
		return T(a / b)
	default:
		return T(a - b)
	}
}

// isFloat reports whether T is a floating point type.
func isFloat[T Number]() bool {
	half := 0.5
	return T(half) != 0
}
