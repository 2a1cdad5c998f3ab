package slaballoc

import (
	"fmt"

	"github.com/fmstephe/flib/fmath"
	"golang.org/x/sys/unix"
)

// NewAnonymousMapping carves the allocator's flat region out of a
// fresh anonymous mapping. The mapping's byte length is rounded up to
// the next power of two before the call, so the underlying mapping is
// always a page-friendly size even though the logical capacity is
// exact.
func NewAnonymousMapping[T any](capacity uint64) (*Allocator[T], error) {
	size := RegionSize[T](capacity)
	mapSize := uint64(fmath.NxtPowerOfTwo(int64(size)))

	buf, err := unix.Mmap(-1, 0, int(mapSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("slaballoc: mmap of %d bytes failed: %w", mapSize, err)
	}

	return newAllocator[T](buf, capacity), nil
}

// Unmap releases the region backing this allocator. After Unmap, the
// Allocator and any outstanding Handles over it must not be used.
// Unmap must only be called on an Allocator constructed with
// NewAnonymousMapping.
func (a *Allocator[T]) Unmap() error {
	return unix.Munmap(a.buf)
}
