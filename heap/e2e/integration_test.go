package e2e

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
)

func setupAllocator(t *testing.T) *alloc.Allocator {
	t.Helper()

	h, err := heap.New(&heap.Options{MaxSize: 16 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	a, err := alloc.New(h, nil)
	require.NoError(t, err)
	return a
}

// Test_Integration_InitAndFirstAlloc: a fresh allocator serves a small block
// and passes a full consistency check.
func Test_Integration_InitAndFirstAlloc(t *testing.T) {
	a := setupAllocator(t)

	ref, payload, err := a.Alloc(16)
	require.NoError(t, err)
	assert.NotEqual(t, alloc.NilRef, ref)
	assert.GreaterOrEqual(t, len(payload), 16)

	assert.Empty(t, a.Check(false))
}

// Test_Integration_FreedBlockIsReused: first-fit over a one-entry free list
// must hand the freed block back.
func Test_Integration_FreedBlockIsReused(t *testing.T) {
	a := setupAllocator(t)

	first, _, err := a.Alloc(100)
	require.NoError(t, err)
	_, _, err = a.Alloc(100)
	require.NoError(t, err)

	require.NoError(t, a.Free(first))

	// Everything else is allocated, so the scan can only land on the block
	// just freed (50 fits in the 112-byte block with an absorbed remainder
	// or a split, either way at the same offset).
	third, _, err := a.Alloc(50)
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Empty(t, a.Check(false))
}

// Test_Integration_AdjacentFreesMerge: releasing two physical neighbors must
// leave one merged free block, never two.
func Test_Integration_AdjacentFreesMerge(t *testing.T) {
	a := setupAllocator(t)

	first, _, err := a.Alloc(100)
	require.NoError(t, err)
	second, _, err := a.Alloc(100)
	require.NoError(t, err)
	_, _, err = a.Alloc(100) // keep the chunk tail out of the merge
	require.NoError(t, err)

	require.NoError(t, a.Free(first))
	require.NoError(t, a.Free(second))

	snap := a.Snapshot()
	merged := false
	for _, blk := range snap.Blocks {
		if blk.Ref == first {
			require.False(t, blk.Allocated)
			assert.Equal(t, int32(224), blk.Size, "two 112-byte blocks merge into one")
			merged = true
		}
		if blk.Ref == second {
			t.Fatalf("block at 0x%X still exists separately; merge missed", second)
		}
	}
	assert.True(t, merged)
	assert.Empty(t, a.Check(true))
}

// Test_Integration_ResizePreservesPrefix: the first bytes survive a move.
func Test_Integration_ResizePreservesPrefix(t *testing.T) {
	a := setupAllocator(t)

	ref, payload, err := a.Alloc(4)
	require.NoError(t, err)
	copy(payload, []byte{1, 2, 3, 4})

	_, resized, err := a.Realloc(ref, 4096)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, resized[:4])
	assert.Empty(t, a.Check(false))
}

// Test_Integration_ZeroAllocation: size zero yields the nil ref, not a
// zero-size block.
func Test_Integration_ZeroAllocation(t *testing.T) {
	a := setupAllocator(t)

	before := a.Snapshot()
	ref, payload, err := a.Alloc(0)
	require.NoError(t, err)
	assert.Equal(t, alloc.NilRef, ref)
	assert.Nil(t, payload)

	after := a.Snapshot()
	assert.Equal(t, len(before.Blocks), len(after.Blocks))
}

// Test_Integration_SteadyStateStaysBounded: constant-size churn must not
// grow the arena past its first extension.
func Test_Integration_SteadyStateStaysBounded(t *testing.T) {
	a := setupAllocator(t)

	size := a.Snapshot().ArenaSize
	for i := 0; i < 10_000; i++ {
		ref, _, err := a.Alloc(64)
		require.NoError(t, err)
		require.NoError(t, a.Free(ref))
	}

	assert.Equal(t, size, a.Snapshot().ArenaSize)
	assert.Equal(t, 1, a.Stats().GrowCalls)
	assert.Empty(t, a.Check(false))
}

// Test_Integration_FullLifecycle drives the public surface end to end:
// allocate a batch, write through payloads, resize some, release all, and
// render the final state through both printer formats.
func Test_Integration_FullLifecycle(t *testing.T) {
	a := setupAllocator(t)

	t.Log("Step 1: Allocating a batch")
	type slot struct {
		ref  alloc.Ref
		data []byte
	}
	var slots []slot
	for i := 0; i < 50; i++ {
		ref, payload, err := a.Alloc(int32(10 + i*7))
		require.NoError(t, err)
		for j := range payload {
			payload[j] = byte(i)
		}
		slots = append(slots, slot{ref, payload})
	}
	assert.Empty(t, a.Check(false))

	t.Log("Step 2: Releasing every other block")
	for i := 0; i < len(slots); i += 2 {
		require.NoError(t, a.Free(slots[i].ref))
	}
	assert.Empty(t, a.Check(false))

	t.Log("Step 3: Resizing the survivors")
	for i := 1; i < len(slots); i += 2 {
		ref, payload, err := a.Realloc(slots[i].ref, int32(500+i))
		require.NoError(t, err)
		assert.Equal(t, byte(i), payload[0], "resize lost block %d's data", i)
		slots[i] = slot{ref, payload}
	}
	assert.Empty(t, a.Check(false))

	t.Log("Step 4: Rendering state")
	var text, js bytes.Buffer
	require.NoError(t, printer.New(&text, printer.DefaultOptions()).Print(a.Snapshot()))
	assert.Contains(t, text.String(), "Arena:")

	opts := printer.DefaultOptions()
	opts.Format = printer.FormatJSON
	opts.ShowStats = true
	require.NoError(t, printer.New(&js, opts).Print(a.Snapshot()))
	assert.Contains(t, js.String(), "arena_size")

	t.Log("Step 5: Draining")
	for i := 1; i < len(slots); i += 2 {
		require.NoError(t, a.Free(slots[i].ref))
	}
	assert.Empty(t, a.Check(false))
	assert.Equal(t, 1, a.FreeCount())
}
