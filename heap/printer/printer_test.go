package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

func newSnapshot(t *testing.T) alloc.Snapshot {
	t.Helper()
	h, err := heap.New(&heap.Options{MaxSize: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	a, err := alloc.New(h, nil)
	require.NoError(t, err)

	r1, _, err := a.Alloc(100)
	require.NoError(t, err)
	_, _, err = a.Alloc(200)
	require.NoError(t, err)
	require.NoError(t, a.Free(r1))

	return a.Snapshot()
}

func TestPrintText(t *testing.T) {
	snap := newSnapshot(t)

	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.Print(snap))

	out := buf.String()
	assert.Contains(t, out, "Arena:")
	assert.Contains(t, out, "EOL")
	assert.Contains(t, out, "Free list")
	assert.Contains(t, out, ":a]") // at least one allocated block
	assert.Contains(t, out, ":f]") // and one free block
}

func TestPrintTextMaxBlocks(t *testing.T) {
	snap := newSnapshot(t)
	require.Greater(t, len(snap.Blocks), 2)

	opts := DefaultOptions()
	opts.MaxBlocks = 2
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Print(snap))

	assert.Contains(t, buf.String(), "more blocks")

	blockLines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "  0x") {
			blockLines++
		}
	}
	assert.Equal(t, 2, blockLines)
}

func TestPrintTextWithStats(t *testing.T) {
	snap := newSnapshot(t)

	opts := DefaultOptions()
	opts.ShowStats = true
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Print(snap))

	out := buf.String()
	assert.Contains(t, out, "Allocs:")
	assert.Contains(t, out, "Frees:")
	assert.Contains(t, out, "Grows:")
}

func TestPrintJSON(t *testing.T) {
	snap := newSnapshot(t)

	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.ShowStats = true
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).Print(snap))

	var decoded struct {
		ArenaSize int `json:"arena_size"`
		FreeCount int `json:"free_count"`
		Blocks    []struct {
			Ref       uint32 `json:"ref"`
			Size      int32  `json:"size"`
			Allocated bool   `json:"allocated"`
			Epilogue  bool   `json:"epilogue"`
		} `json:"blocks"`
		FreeList []uint32 `json:"free_list"`
		Stats    *struct {
			AllocCalls int `json:"alloc_calls"`
			FreeCalls  int `json:"free_calls"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, snap.ArenaSize, decoded.ArenaSize)
	assert.Equal(t, snap.FreeCount, decoded.FreeCount)
	assert.Len(t, decoded.Blocks, len(snap.Blocks))
	assert.True(t, decoded.Blocks[len(decoded.Blocks)-1].Epilogue)
	assert.Equal(t, snap.FreeList, decoded.FreeList)
	require.NotNil(t, decoded.Stats)
	assert.Equal(t, 2, decoded.Stats.AllocCalls)
	assert.Equal(t, 1, decoded.Stats.FreeCalls)
}

func TestPrintStats(t *testing.T) {
	snap := newSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintStats(snap.Stats))
	assert.Contains(t, buf.String(), "Allocs:")

	buf.Reset()
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintStats(snap.Stats))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "alloc_calls")
}

func TestUnknownFormatFallsBackToText(t *testing.T) {
	snap := newSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Format: "yaml", ShowFreeList: true}).Print(snap))
	assert.Contains(t, buf.String(), "Arena:")
}
