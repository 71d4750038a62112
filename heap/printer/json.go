package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// jsonBlock represents one block of the chain in JSON format.
type jsonBlock struct {
	Ref       uint32 `json:"ref"`
	Size      int32  `json:"size"`
	Allocated bool   `json:"allocated"`
	Epilogue  bool   `json:"epilogue,omitempty"`
}

// jsonSnapshot represents an allocator snapshot in JSON format.
type jsonSnapshot struct {
	ArenaSize int         `json:"arena_size"`
	FreeHead  uint32      `json:"free_head"`
	FreeCount int         `json:"free_count"`
	Blocks    []jsonBlock `json:"blocks,omitempty"`
	FreeList  []uint32    `json:"free_list,omitempty"`
	Stats     *jsonStats  `json:"stats,omitempty"`
}

// jsonStats represents allocator counters in JSON format.
type jsonStats struct {
	AllocCalls       int   `json:"alloc_calls"`
	AllocFastPath    int   `json:"alloc_fast_path"`
	AllocSlowPath    int   `json:"alloc_slow_path"`
	FreeCalls        int   `json:"free_calls"`
	ReallocCalls     int   `json:"realloc_calls"`
	GrowCalls        int   `json:"grow_calls"`
	GrowBytes        int64 `json:"grow_bytes"`
	SplitCount       int   `json:"split_count"`
	CoalesceForward  int   `json:"coalesce_forward"`
	CoalesceBackward int   `json:"coalesce_backward"`
	BytesAllocated   int64 `json:"bytes_allocated"`
	BytesFreed       int64 `json:"bytes_freed"`
}

// printJSON renders a snapshot in JSON format.
func (p *Printer) printJSON(snap alloc.Snapshot) error {
	out := jsonSnapshot{
		ArenaSize: snap.ArenaSize,
		FreeHead:  snap.FreeHead,
		FreeCount: snap.FreeCount,
	}

	shown := len(snap.Blocks)
	if p.opts.MaxBlocks > 0 && shown > p.opts.MaxBlocks {
		shown = p.opts.MaxBlocks
	}
	for _, blk := range snap.Blocks[:shown] {
		out.Blocks = append(out.Blocks, jsonBlock{
			Ref:       blk.Ref,
			Size:      blk.Size,
			Allocated: blk.Allocated,
			Epilogue:  blk.Size == 0,
		})
	}

	if p.opts.ShowFreeList {
		out.FreeList = snap.FreeList
	}
	if p.opts.ShowStats {
		out.Stats = statsJSON(snap.Stats)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printStatsJSON renders only the counters in JSON format.
func (p *Printer) printStatsJSON(stats alloc.Stats) error {
	data, err := json.MarshalIndent(statsJSON(stats), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func statsJSON(s alloc.Stats) *jsonStats {
	return &jsonStats{
		AllocCalls:       s.AllocCalls,
		AllocFastPath:    s.AllocFastPath,
		AllocSlowPath:    s.AllocSlowPath,
		FreeCalls:        s.FreeCalls,
		ReallocCalls:     s.ReallocCalls,
		GrowCalls:        s.GrowCalls,
		GrowBytes:        s.GrowBytes,
		SplitCount:       s.SplitCount,
		CoalesceForward:  s.CoalesceForward,
		CoalesceBackward: s.CoalesceBackward,
		BytesAllocated:   s.BytesAllocated,
		BytesFreed:       s.BytesFreed,
	}
}
