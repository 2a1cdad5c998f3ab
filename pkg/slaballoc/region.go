// Package slaballoc implements a fixed-capacity slab allocator over a
// flat caller-supplied region: every slot holds either a live T or an
// index into a free chain, and the discriminant is implicit (a slot's
// membership in the free chain, not a tag stored alongside it).
//
// Release always inserts a freed slot back into the free chain in
// address order, which is what lets Iter walk every occupied slot in
// ascending index order without tracking anything beyond the chain
// itself.
//
//	a := slaballoc.NewEmbedded[Widget](1024)
//	h, ok := a.Allocate(Widget{...})
//	w := h.Get()
//	...
//	h.Free()
package slaballoc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/fmstephe/shmalloc/internal/shmlock"
)

type header struct {
	mu       shmlock.Mutex
	head     uint64 // sentinel == capacity means "no free slot"
	capacity uint64
}

const headerSize = uint64(unsafe.Sizeof(header{}))

// cellSize returns the per-slot footprint for slabs of T: the larger
// of the free-chain index and a T, rounded up to T's natural
// alignment (and never less than the index's own alignment) so that
// every slot in the backing array starts suitably aligned for T.
func cellSize[T any]() uint64 {
	var zero T
	size := unsafe.Sizeof(zero)
	if idxSize := unsafe.Sizeof(uint64(0)); idxSize > size {
		size = idxSize
	}

	align := unsafe.Alignof(zero)
	if idxAlign := unsafe.Alignof(uint64(0)); idxAlign > align {
		align = idxAlign
	}

	return uint64((size + align - 1) / align * align)
}

// RegionSize returns the number of bytes an Allocator[T] of the given
// capacity requires for its backing region, including the header.
func RegionSize[T any](capacity uint64) uint64 {
	return headerSize + capacity*cellSize[T]()
}

// Allocator is a fixed-capacity slab allocator for values of type T.
// Its zero value is not usable; construct one with NewEmbedded,
// NewInPlace or NewAnonymousMapping.
type Allocator[T any] struct {
	buf  []byte
	hdr  *header
	data unsafe.Pointer // start of the slot array

	allocs atomic.Uint64
	frees  atomic.Uint64
	misses atomic.Uint64
}

// NewEmbedded allocates and initializes a new region of the given
// capacity on the Go heap.
func NewEmbedded[T any](capacity uint64) *Allocator[T] {
	buf := make([]byte, RegionSize[T](capacity))
	return newAllocator[T](buf, capacity)
}

// NewInPlace initializes a new allocator inside buf, which must be
// zeroed and at least RegionSize[T](capacity) bytes long.
func NewInPlace[T any](buf []byte, capacity uint64) *Allocator[T] {
	if uint64(len(buf)) < RegionSize[T](capacity) {
		panic(fmt.Errorf("slaballoc: buffer of %d bytes too small for capacity %d (needs %d)", len(buf), capacity, RegionSize[T](capacity)))
	}
	return newAllocator[T](buf, capacity)
}

func newAllocator[T any](buf []byte, capacity uint64) *Allocator[T] {
	a := &Allocator[T]{
		buf: buf,
		hdr: (*header)(unsafe.Pointer(&buf[0])),
	}
	a.hdr.capacity = capacity

	if capacity > 0 {
		a.data = unsafe.Pointer(&buf[headerSize])
		for i := uint64(0); i < capacity-1; i++ {
			*a.slotAsFree(i) = i + 1
		}
		*a.slotAsFree(capacity - 1) = capacity
		a.hdr.head = 0
	} else {
		a.hdr.head = capacity
	}

	return a
}

func (a *Allocator[T]) slotAsFree(i uint64) *uint64 {
	return (*uint64)(unsafe.Add(a.data, i*cellSize[T]()))
}

func (a *Allocator[T]) slotAsValue(i uint64) *T {
	return (*T)(unsafe.Add(a.data, i*cellSize[T]()))
}

func (a *Allocator[T]) none() uint64 {
	return a.hdr.capacity
}

// Capacity returns the total number of slots managed by this
// allocator. It never changes after construction.
func (a *Allocator[T]) Capacity() uint64 {
	return a.hdr.capacity
}

// Stats is a point-in-time snapshot of allocator activity.
type Stats struct {
	Allocs int
	Frees  int
	Misses int
	Live   int
}

// Stats returns a snapshot of this allocator's counters.
func (a *Allocator[T]) Stats() Stats {
	allocs := a.allocs.Load()
	frees := a.frees.Load()
	misses := a.misses.Load()
	return Stats{
		Allocs: int(allocs),
		Frees:  int(frees),
		Misses: int(misses),
		Live:   int(allocs - frees),
	}
}
