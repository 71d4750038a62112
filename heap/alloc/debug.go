package alloc

import (
	"fmt"
	"io"
	"os"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(msg string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+msg+"\n", args...)
	}
}

// dumpHeap writes a printblock-style rendering of the physical chain and the
// free list, used by Check(verbose).
func (a *Allocator) dumpHeap(w io.Writer) {
	snap := a.Snapshot()
	fmt.Fprintf(w, "Arena (%d bytes), %d blocks, %d free:\n",
		snap.ArenaSize, len(snap.Blocks), snap.FreeCount)
	for _, blk := range snap.Blocks {
		if blk.Size == 0 {
			fmt.Fprintf(w, "  0x%06X: EOL\n", blk.Ref)
			continue
		}
		fmt.Fprintf(w, "  0x%06X: header: [%d:%c] footer: [%d:%c]\n",
			blk.Ref,
			blk.Size, allocChar(blk.Allocated),
			blk.FooterSize, allocChar(blk.FooterAllocated))
	}
	fmt.Fprintf(w, "Free list (head 0x%06X):", snap.FreeHead)
	for _, ref := range snap.FreeList {
		fmt.Fprintf(w, " 0x%06X", ref)
	}
	fmt.Fprintln(w)
}

func allocChar(allocated bool) byte {
	if allocated {
		return 'a'
	}
	return 'f'
}
