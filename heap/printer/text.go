package printer

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// printText renders a snapshot in human-readable text format.
func (p *Printer) printText(snap alloc.Snapshot) error {
	fmt.Fprintf(p.writer, "Arena: %d bytes, %d blocks, %d free\n",
		snap.ArenaSize, len(snap.Blocks), snap.FreeCount)

	shown := len(snap.Blocks)
	if p.opts.MaxBlocks > 0 && shown > p.opts.MaxBlocks {
		shown = p.opts.MaxBlocks
	}

	for _, blk := range snap.Blocks[:shown] {
		if blk.Size == 0 {
			fmt.Fprintf(p.writer, "  0x%06X: EOL\n", blk.Ref)
			continue
		}
		fmt.Fprintf(p.writer, "  0x%06X: header [%d:%c] footer [%d:%c]\n",
			blk.Ref,
			blk.Size, allocChar(blk.Allocated),
			blk.FooterSize, allocChar(blk.FooterAllocated))
	}
	if shown < len(snap.Blocks) {
		fmt.Fprintf(p.writer, "  ... %d more blocks\n", len(snap.Blocks)-shown)
	}

	if p.opts.ShowFreeList {
		fmt.Fprintf(p.writer, "Free list (head 0x%06X):", snap.FreeHead)
		for _, ref := range snap.FreeList {
			fmt.Fprintf(p.writer, " 0x%06X", ref)
		}
		fmt.Fprintln(p.writer)
	}

	if p.opts.ShowStats {
		return p.printStatsText(snap.Stats)
	}
	return nil
}

// printStatsText renders allocator counters in text format.
func (p *Printer) printStatsText(stats alloc.Stats) error {
	fmt.Fprintf(p.writer, "Allocs:    %d (%d reused, %d grew)\n",
		stats.AllocCalls, stats.AllocFastPath, stats.AllocSlowPath)
	fmt.Fprintf(p.writer, "Frees:     %d\n", stats.FreeCalls)
	fmt.Fprintf(p.writer, "Reallocs:  %d\n", stats.ReallocCalls)
	fmt.Fprintf(p.writer, "Grows:     %d (%d bytes)\n", stats.GrowCalls, stats.GrowBytes)
	fmt.Fprintf(p.writer, "Splits:    %d\n", stats.SplitCount)
	fmt.Fprintf(p.writer, "Coalesces: %d forward, %d backward\n",
		stats.CoalesceForward, stats.CoalesceBackward)
	fmt.Fprintf(p.writer, "Bytes:     %d allocated, %d freed\n",
		stats.BytesAllocated, stats.BytesFreed)
	return nil
}

func allocChar(allocated bool) byte {
	if allocated {
		return 'a'
	}
	return 'f'
}
