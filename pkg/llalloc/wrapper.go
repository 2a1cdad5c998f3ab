package llalloc

import "fmt"

// Wrapper is the handle returned by Allocate. It owns the cell range
// [Index(), Index()+Size()) exclusively until Free is called. A
// Wrapper with Size() == 0 is a placeholder: it owns nothing and Free
// is a no-op.
type Wrapper struct {
	allocator *Allocator
	index     uint64
	size      uint64
}

// Allocator returns the allocator this Wrapper was created from.
func (w *Wrapper) Allocator() *Allocator {
	return w.allocator
}

// Index returns the cell index this Wrapper owns.
func (w *Wrapper) Index() uint64 {
	return w.index
}

// Size returns the number of cells this Wrapper owns.
func (w *Wrapper) Size() uint64 {
	return w.size
}

// Cells returns the backing cell range owned by this Wrapper. Reading
// or writing through the returned slice does not take the allocator's
// lock: the free list never touches cells owned by a live Wrapper, so
// this is safe for as long as the Wrapper has not been freed.
func (w *Wrapper) Cells() []Cell {
	return w.allocator.cells[w.index : w.index+w.size]
}

// Bytes reinterprets the owned cell range as a flat byte slice, for
// callers that want to treat the allocation as raw storage rather
// than as a run of Cells.
func (w *Wrapper) Bytes() []byte {
	cells := w.Cells()
	if len(cells) == 0 {
		return nil
	}
	return unsafeCellsToBytes(cells)
}

// Free releases the owned cell range back to the allocator's free
// list, coalescing with any address-adjacent free runs. Free on a
// zero-size placeholder Wrapper does nothing. Free must not be called
// more than once for the same Wrapper.
func (w *Wrapper) Free() {
	if w.size == 0 {
		return
	}
	if w.allocator == nil {
		panic(fmt.Errorf("llalloc: Free called on a Wrapper with no allocator"))
	}

	w.allocator.hdr.mu.Lock()
	defer w.allocator.hdr.mu.Unlock()

	w.allocator.free(w.index, w.size)
	w.allocator.frees.Add(1)

	*w = Wrapper{}
}
