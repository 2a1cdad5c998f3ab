package llalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AllocateSlice_GetSet(t *testing.T) {
	a := NewEmbedded(64)

	s, ok := AllocateSlice[uint8](a, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.Len())

	copy(s.Get(), []uint8{7, 9})
	assert.Equal(t, []uint8{7, 9}, s.Get())

	s.Free()
}

// Resize grows and shrinks a slice while preserving the overlapping
// prefix of its contents.
func Test_Scenario_ResizeCopy(t *testing.T) {
	a := NewEmbedded(64)

	s, ok := AllocateSlice[uint8](a, 2)
	require.True(t, ok)
	copy(s.Get(), []uint8{7, 9})

	require.True(t, s.Resize(3))
	assert.Equal(t, uint64(3), s.Len())
	assert.Equal(t, []uint8{7, 9}, s.Get()[:2])

	require.True(t, s.Resize(1))
	assert.Equal(t, uint64(1), s.Len())
	assert.Equal(t, uint8(7), s.Get()[0])

	s.Free()
}

func Test_Resize_SameLength_IsNoop(t *testing.T) {
	a := NewEmbedded(64)
	s, ok := AllocateSlice[uint8](a, 4)
	require.True(t, ok)
	copy(s.Get(), []uint8{1, 2, 3, 4})

	idxBefore := s.Wrapper().Index()
	require.True(t, s.Resize(4))
	assert.Equal(t, idxBefore, s.Wrapper().Index())
	assert.Equal(t, []uint8{1, 2, 3, 4}, s.Get())
}

func Test_Resize_FailureLeavesSliceIntact(t *testing.T) {
	a := NewEmbedded(4)
	s, ok := AllocateSlice[uint8](a, 2)
	require.True(t, ok)
	copy(s.Get(), []uint8{1, 2})

	// Exhaust the remaining capacity so growth can't succeed.
	_, ok = a.Allocate(3)
	require.True(t, ok)

	ok = s.Resize(4)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), s.Len())
	assert.Equal(t, []uint8{1, 2}, s.Get())
}

func Test_AllocateSlice_Zero(t *testing.T) {
	a := NewEmbedded(4)
	s, ok := AllocateSlice[uint8](a, 0)
	require.True(t, ok)
	assert.Nil(t, s.Get())
	s.Free()
}
