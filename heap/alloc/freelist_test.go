package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// newListArena returns a slice big enough for offset-based link games. The
// blocks used here only need their two link words; no tags are involved.
func newListArena() []byte {
	return make([]byte, 4096)
}

func TestInsertIsLIFO(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.insert(data, 64)
	fl.insert(data, 128)

	assert.Equal(t, Ref(128), fl.head)
	assert.Equal(t, 3, fl.count())

	// 128 -> 64 -> 16, with mutual links.
	assert.Equal(t, NilRef, predOf(data, 128))
	assert.Equal(t, Ref(64), succOf(data, 128))
	assert.Equal(t, Ref(128), predOf(data, 64))
	assert.Equal(t, Ref(16), succOf(data, 64))
	assert.Equal(t, Ref(64), predOf(data, 16))
	assert.Equal(t, NilRef, succOf(data, 16))
}

func TestRemoveHead(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.insert(data, 64)

	fl.remove(data, 64)

	assert.Equal(t, Ref(16), fl.head)
	assert.Equal(t, 1, fl.count())
	assert.Equal(t, NilRef, predOf(data, 16))
	assert.Equal(t, NilRef, succOf(data, 16))
}

func TestRemoveMiddle(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.insert(data, 64)
	fl.insert(data, 128)

	fl.remove(data, 64)

	assert.Equal(t, Ref(128), fl.head)
	assert.Equal(t, 2, fl.count())
	assert.Equal(t, Ref(16), succOf(data, 128))
	assert.Equal(t, Ref(128), predOf(data, 16))
}

func TestRemoveTail(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.insert(data, 64)

	fl.remove(data, 16)

	assert.Equal(t, Ref(64), fl.head)
	assert.Equal(t, 1, fl.count())
	assert.Equal(t, NilRef, succOf(data, 64))
}

func TestRemoveLastLeavesEmptyList(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.remove(data, 16)

	assert.Equal(t, NilRef, fl.head)
	assert.Equal(t, 0, fl.count())
}

func TestRemoveClearsLinks(t *testing.T) {
	data := newListArena()
	var fl freeList

	fl.insert(data, 16)
	fl.insert(data, 64)
	fl.remove(data, 64)

	// A spliced-out block must not carry stale links.
	assert.Equal(t, NilRef, format.ReadU32(data, 64))
	assert.Equal(t, NilRef, format.ReadU32(data, 64+format.WordSize))
}

func TestListSurvivesChurn(t *testing.T) {
	data := newListArena()
	var fl freeList

	refs := []Ref{16, 64, 128, 256, 512, 1024}
	for _, bp := range refs {
		fl.insert(data, bp)
	}
	require.Equal(t, len(refs), fl.count())

	// Remove in an order that hits head, middle, and tail splices.
	for _, bp := range []Ref{128, 1024, 16, 512, 64, 256} {
		fl.remove(data, bp)
	}
	assert.Equal(t, 0, fl.count())
	assert.Equal(t, NilRef, fl.head)
}
