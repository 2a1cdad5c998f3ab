package llalloc

import "github.com/fmstephe/flib/funsafe"

// RefString is a zero-copy string view over a byte Slice owned by this
// allocator.
type RefString struct {
	bytes Slice[byte]
}

// AllocateString copies s into newly allocated storage and returns a
// RefString over it.
func AllocateString(a *Allocator, s string) (RefString, bool) {
	src := funsafe.StringToBytes(s)
	dst, ok := AllocateSlice[byte](a, uint64(len(src)))
	if !ok {
		return RefString{}, false
	}
	copy(dst.Get(), src)
	return RefString{bytes: dst}, true
}

// String returns the zero-copy string view over the owned bytes. The
// returned string is valid only until Free is called.
func (r *RefString) String() string {
	return funsafe.BytesToString(r.bytes.Get())
}

// Free releases the owned storage back to the allocator.
func (r *RefString) Free() {
	r.bytes.Free()
}
