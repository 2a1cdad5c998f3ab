// Package llalloc implements a fixed-capacity, first-fit, coalescing
// linked-list allocator over a flat caller-supplied region.
//
// An Allocator carves a contiguous run of Cells out of its region on
// Allocate, and hands back a Wrapper. The Wrapper owns that run
// exclusively until it is released with Free, at which point the run
// is returned to an address-ordered, coalescing free list.
//
// Every allocator instance, including its mutex, its free-list head
// and its cell array, lives inside a single flat []byte region. This
// means the whole allocator can be placed inside memory mapped into
// more than one process: the engine only ever computes cell addresses
// by arithmetic from the region's own start, never from an absolute
// pointer baked in at construction time.
//
//	a := llalloc.NewEmbedded(1024)
//	w, ok := a.Allocate(4)
//	if !ok {
//	  // no run of 4 cells was free
//	}
//	copy(w.Bytes(), []byte("data"))
//	w.Free()
//
// The mutex embedded in the region (see internal/shmlock) only
// protects free-list bookkeeping. Reading or writing the bytes owned
// by a Wrapper never takes the lock: the free list never touches a
// cell range owned by a live Wrapper, so those reads/writes are safe
// without further synchronization. Do not add per-access locking here
// without remeasuring — losing lock-free reads defeats the reason this
// design exists.
package llalloc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/fmstephe/shmalloc/internal/shmlock"
)

// Cell is the fixed-size control record the linked-list engine is
// built from. A free run's first Cell carries Size (the run length in
// cells) and Next (the index of the next free run, or the sentinel
// none value). Cells inside a live allocation hold whatever bytes the
// caller wrote there; the engine imposes no interpretation on them.
type Cell struct {
	Size uint64
	Next uint64
}

// CellSize is the size in bytes of a single Cell, and therefore the
// allocation grain of the engine.
const CellSize = uint64(unsafe.Sizeof(Cell{}))

type header struct {
	mu       shmlock.Mutex
	head     uint64 // sentinel == capacity means "no free run"
	capacity uint64
}

const headerSize = uint64(unsafe.Sizeof(header{}))

// RegionSize returns the number of bytes an Allocator of the given
// capacity (in cells) requires for its backing region, including the
// header.
func RegionSize(capacity uint64) uint64 {
	return headerSize + capacity*CellSize
}

// Allocator is a fixed-capacity linked-list allocator. Its zero value
// is not usable; construct one with NewEmbedded, NewInPlace or
// NewAnonymousMapping.
type Allocator struct {
	buf   []byte // the flat region; kept alive here and released by Unmap
	hdr   *header
	cells []Cell

	allocs atomic.Uint64
	frees  atomic.Uint64
	misses atomic.Uint64
}

// NewEmbedded allocates and initializes a new region of the given
// capacity (measured in cells) on the Go heap. Use this when the
// allocator does not need to be shared outside the current process.
func NewEmbedded(capacity uint64) *Allocator {
	buf := make([]byte, RegionSize(capacity))
	return newAllocator(buf, capacity)
}

// NewInPlace initializes a new allocator inside buf, which must be
// zeroed and at least RegionSize(capacity) bytes long. This is the
// constructor to use when buf is memory shared with other processes.
// NewInPlace always initializes buf as an empty allocator (one free run
// covering the whole capacity); calling it on a region already in use
// discards that region's free-list state. This package has no
// constructor that attaches to an already-initialized region.
func NewInPlace(buf []byte, capacity uint64) *Allocator {
	if uint64(len(buf)) < RegionSize(capacity) {
		panic(fmt.Errorf("llalloc: buffer of %d bytes too small for capacity %d (needs %d)", len(buf), capacity, RegionSize(capacity)))
	}
	return newAllocator(buf, capacity)
}

func newAllocator(buf []byte, capacity uint64) *Allocator {
	a := &Allocator{
		buf: buf,
		hdr: (*header)(unsafe.Pointer(&buf[0])),
	}
	if capacity > 0 {
		a.cells = unsafe.Slice((*Cell)(unsafe.Pointer(&buf[headerSize])), capacity)
	}

	a.hdr.capacity = capacity
	if capacity > 0 {
		a.cells[0] = Cell{Size: capacity, Next: capacity}
		a.hdr.head = 0
	} else {
		a.hdr.head = capacity // sentinel, capacity == 0 here
	}

	return a
}

// Capacity returns the total number of cells managed by this
// allocator. It never changes after construction.
func (a *Allocator) Capacity() uint64 {
	return a.hdr.capacity
}

func (a *Allocator) none() uint64 {
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
func (a *Allocator) Stats() Stats {
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
