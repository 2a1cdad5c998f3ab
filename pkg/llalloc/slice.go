package llalloc

import "unsafe"

// AllocateSlice reserves space for len many T and returns a typed
// slice view over it. The number of cells reserved is
// ceil(len*sizeof(T) / CellSize).
func AllocateSlice[T any](a *Allocator, length uint64) (Slice[T], bool) {
	var zero T
	n := ceilCells(length * uint64(unsafe.Sizeof(zero)))
	w, ok := a.Allocate(n)
	if !ok {
		return Slice[T]{}, false
	}
	return Slice[T]{wrapper: w, length: length}, true
}

// Slice is a typed, resizable view over a run of cells holding a
// logical sequence of T.
type Slice[T any] struct {
	wrapper Wrapper
	length  uint64
}

// Wrapper returns the underlying raw handle.
func (s *Slice[T]) Wrapper() *Wrapper {
	return &s.wrapper
}

// Len returns the logical length of the slice, in T, as given to
// AllocateSlice or the most recent successful Resize.
func (s *Slice[T]) Len() uint64 {
	return s.length
}

// Get returns a Go slice of length Len() over the owned storage. The
// returned slice is valid only until Free or a successful Resize.
func (s *Slice[T]) Get() []T {
	if s.length == 0 {
		return nil
	}
	cells := s.wrapper.Cells()
	return unsafe.Slice((*T)(unsafe.Pointer(&cells[0])), s.length)
}

// Resize changes the logical length of the slice to newLength. If
// newLength equals the current length, this is a no-op. Otherwise a
// new run is allocated, the overlap of the old and new contents
// (min(oldLength, newLength) elements) is copied across, and the old
// run is released. If the new allocation fails, Resize reports false
// and leaves the Slice untouched.
//
// The new run is installed before the old one is released, so that a
// failed allocation never leaves the Slice pointing at freed storage.
func (s *Slice[T]) Resize(newLength uint64) bool {
	if newLength == s.length {
		return true
	}

	newSlice, ok := AllocateSlice[T](s.wrapper.allocator, newLength)
	if !ok {
		return false
	}

	overlap := newLength
	if s.length < overlap {
		overlap = s.length
	}
	if overlap > 0 {
		copy(newSlice.Get(), s.Get()[:overlap])
	}

	old := s.wrapper
	*s = newSlice
	old.Free()

	return true
}

// Free releases the owned storage back to the allocator.
func (s *Slice[T]) Free() {
	s.wrapper.Free()
}
