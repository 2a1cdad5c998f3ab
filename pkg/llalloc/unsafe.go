package llalloc

import "unsafe"

// unsafeCellsToBytes reinterprets a (non-empty) run of Cells as a flat
// byte slice of the same underlying memory.
func unsafeCellsToBytes(cells []Cell) []byte {
	n := uint64(len(cells)) * CellSize
	return unsafe.Slice((*byte)(unsafe.Pointer(&cells[0])), n)
}

// ceilCells returns the number of cells required to hold n bytes,
// rounding up.
func ceilCells(nbytes uint64) uint64 {
	return (nbytes + CellSize - 1) / CellSize
}
