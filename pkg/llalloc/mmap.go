package llalloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NewAnonymousMapping carves the allocator's flat region out of a
// fresh anonymous mapping. MAP_SHARED is used (not MAP_PRIVATE) so the
// returned region is immediately valid to inherit across a fork, or to
// re-map by address from another process given the same file
// descriptor-less mapping's pages shared via inheritance.
//
// The allocator's own mutex is still the in-process shmlock.Mutex;
// making it safe to lock from another process requires substituting a
// real process-shared mutex, which is outside this module's scope.
func NewAnonymousMapping(capacity uint64) (*Allocator, error) {
	size := RegionSize(capacity)

	buf, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("llalloc: mmap of %d bytes failed: %w", size, err)
	}

	return newAllocator(buf, capacity), nil
}

// Unmap releases the region backing this allocator. After Unmap,
// the Allocator and any outstanding Wrappers over it must not be
// used. Unmap must only be called on an Allocator constructed with
// NewAnonymousMapping.
func (a *Allocator) Unmap() error {
	return unix.Munmap(a.buf)
}
