package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Setup Utilities
// ============================================================================

// newTestHeap creates a heap capped at maxSize with cleanup registered.
func newTestHeap(t testing.TB, maxSize int) *heap.Heap {
	t.Helper()

	h, err := heap.New(&heap.Options{MaxSize: maxSize})
	require.NoError(t, err, "failed to create heap")

	t.Cleanup(func() { _ = h.Close() })

	return h
}

// newTestAllocator creates an allocator over a fresh heap. chunkSize <= 0
// selects the default chunk size.
func newTestAllocator(t testing.TB, chunkSize int32, maxSize int) *Allocator {
	t.Helper()

	h := newTestHeap(t, maxSize)

	var cfg *Config
	if chunkSize > 0 {
		cfg = &Config{ChunkSize: chunkSize}
	}
	a, err := New(h, cfg)
	require.NoError(t, err, "failed to create allocator")

	return a
}

// ============================================================================
// Block Inspection
// ============================================================================

// getBlock reads a block's header tag and returns size and allocated flag.
func getBlock(a *Allocator, ref Ref) (int32, bool) {
	return format.ReadTag(a.h.Bytes(), format.HeaderOff(int(ref)))
}

// firstBlockRef is the payload offset of the first real block: right after
// the pad word and the prologue sentinel.
const firstBlockRef = Ref(format.PrologueOff + format.PrologueSize)

// ============================================================================
// Invariant Checking
// ============================================================================

// assertInvariants runs the consistency checker and fails the test on any
// violation.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()

	for _, err := range a.Check(false) {
		assert.NoError(t, err)
	}
}

// ============================================================================
// Test Hook Setup
// ============================================================================

// setupGrowCounter installs a hook counting arena extensions after setup.
// Returns a pointer to the counter that is updated on each grow.
func setupGrowCounter(a *Allocator) *int {
	growCount := 0
	a.onGrow = func(int32) { growCount++ }
	return &growCount
}
