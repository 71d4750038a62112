package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(payload []byte, seed byte) {
	for i := range payload {
		payload[i] = seed + byte(i)
	}
}

func TestReallocGrowPreservesData(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	ref, payload, err := a.Alloc(64)
	require.NoError(t, err)
	fill(payload[:64], 0x10)

	newRef, newPayload, err := a.Realloc(ref, 256)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, newRef)
	require.GreaterOrEqual(t, len(newPayload), 256)

	for i := 0; i < 64; i++ {
		assert.Equal(t, byte(0x10+i), newPayload[i], "byte %d", i)
	}

	// The old block is free again.
	_, allocated := getBlock(a, ref)
	assert.False(t, allocated)
	assertInvariants(t, a)
}

func TestReallocShrinkTruncates(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	ref, payload, err := a.Alloc(256)
	require.NoError(t, err)
	fill(payload[:256], 0x40)

	_, newPayload, err := a.Realloc(ref, 32)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		assert.Equal(t, byte(0x40+i), newPayload[i], "byte %d", i)
	}
	assertInvariants(t, a)
}

func TestReallocNilRefAllocates(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	ref, payload, err := a.Realloc(NilRef, 100)
	require.NoError(t, err)
	assert.NotEqual(t, NilRef, ref)
	assert.GreaterOrEqual(t, len(payload), 100)
	assertInvariants(t, a)
}

func TestReallocZeroFrees(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	ref, _, err := a.Alloc(100)
	require.NoError(t, err)

	newRef, payload, err := a.Realloc(ref, 0)
	require.NoError(t, err)
	assert.Equal(t, NilRef, newRef)
	assert.Nil(t, payload)

	_, allocated := getBlock(a, ref)
	assert.False(t, allocated)
	assertInvariants(t, a)
}

func TestReallocBadRef(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	_, _, err := a.Realloc(17, 100)
	assert.ErrorIs(t, err, ErrBadRef)

	ref, _, err := a.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))

	_, _, err = a.Realloc(ref, 100)
	assert.ErrorIs(t, err, ErrNotAllocated)
	assertInvariants(t, a)
}

func TestReallocAcrossGrow(t *testing.T) {
	a := newTestAllocator(t, 4096, 1<<20)

	ref, payload, err := a.Alloc(1000)
	require.NoError(t, err)
	fill(payload[:1000], 0x77)

	// Big enough that the new block needs a fresh extension; the copy spans
	// the old and new regions of the same arena.
	_, newPayload, err := a.Realloc(ref, 20_000)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.Equal(t, byte(0x77+i), newPayload[i], "byte %d", i)
	}
	assert.GreaterOrEqual(t, a.Stats().GrowCalls, 2)
	assertInvariants(t, a)
}

func TestReallocOversizedRequestPreservesOriginal(t *testing.T) {
	a := newTestAllocator(t, 0, 1<<20)

	ref, payload, err := a.Alloc(100)
	require.NoError(t, err)
	fill(payload[:100], 0x21)

	// A size whose adjusted block size would wrap int32 must fail without
	// touching the original block.
	_, _, err = a.Realloc(ref, math.MaxInt32)
	require.ErrorIs(t, err, ErrNoSpace)

	size, allocated := getBlock(a, ref)
	assert.Equal(t, int32(112), size)
	assert.True(t, allocated)

	data := a.h.Bytes()
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(0x21+i), data[int(ref)+i], "byte %d", i)
	}
	assertInvariants(t, a)
}

func TestReallocFailurePreservesOriginal(t *testing.T) {
	a := newTestAllocator(t, 4096, 8192)

	ref, payload, err := a.Alloc(100)
	require.NoError(t, err)
	fill(payload[:100], 0x09)

	// Impossible growth: the original allocation must survive untouched.
	_, _, err = a.Realloc(ref, 1_000_000)
	require.ErrorIs(t, err, ErrNoSpace)

	size, allocated := getBlock(a, ref)
	assert.Equal(t, int32(112), size)
	assert.True(t, allocated)

	data := a.h.Bytes()
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(0x09+i), data[int(ref)+i], "byte %d", i)
	}
	assertInvariants(t, a)
}
