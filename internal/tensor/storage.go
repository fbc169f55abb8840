package tensor

import "sync/atomic"

// Number is the set of element types a View can hold.
type Number interface {
	~uint8 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Accumulator is the set of types reductions can accumulate into. It adds
// the native and unsigned integer types to Number.
type Accumulator interface {
	~int | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Storage is a reference counted flat buffer shared by any number of views.
// A new Storage starts with one reference held by its creator.
type Storage[T Number] struct {
	data []T
	refs atomic.Int64
}

// NewStorage allocates zeroed storage for n elements.
func NewStorage[T Number](n int) *Storage[T] {
	return WrapStorage(make([]T, n))
}

// WrapStorage adopts data as storage without copying it.
func WrapStorage[T Number](data []T) *Storage[T] {
	s := &Storage[T]{data: data}
	s.refs.Store(1)
	return s
}

// Data returns the backing slice.
func (s *Storage[T]) Data() []T {
	return s.data
}

// Len returns the number of elements in the buffer.
func (s *Storage[T]) Len() int {
	return len(s.data)
}

// Retain adds a reference and returns s.
func (s *Storage[T]) Retain() *Storage[T] {
	s.refs.Add(1)
	return s
}

// Release drops a reference. It reports true when the last reference was
// dropped, after which the buffer is detached.
func (s *Storage[T]) Release() bool {
	if s.refs.Add(-1) == 0 {
		s.data = nil
		return true
	}
	return false
}

// Refs returns the current reference count.
func (s *Storage[T]) Refs() int64 {
	return s.refs.Load()
}
