package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
)

// extendHeap grows the arena by at least words*WordSize bytes, tags the new
// region as one free block in place of the old epilogue, writes a fresh
// epilogue after it, and coalesces — so a free block that ended at the old
// epilogue folds straight into the extension. Returns the merged block.
//
// Growth failures surface as ErrNoSpace; the caller reports them as
// allocation failure and the arena stays exactly as it was.
func (a *Allocator) extendHeap(words int32) (Ref, error) {
	// Keep the break double-word aligned by extending a whole number of
	// word pairs.
	if words%2 != 0 {
		words++
	}
	size := words * format.WordSize

	if int64(a.h.Size())+int64(size) > format.MaxArenaSize {
		return NilRef, fmt.Errorf("%w: extension of %d bytes would exceed the %d-byte arena limit",
			ErrNoSpace, size, format.MaxArenaSize)
	}

	if a.onGrow != nil {
		a.onGrow(size)
	}

	off, err := a.h.Sbrk(int(size))
	if err != nil {
		return NilRef, fmt.Errorf("%w: %v", ErrNoSpace, err)
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] #%d: +%d bytes, arena now %d bytes\n",
			a.stats.GrowCalls, size, a.h.Size())
	}

	data := a.h.Bytes()
	bp := off

	// The new block's header lands on the old epilogue word; the new
	// epilogue closes the arena again.
	format.WriteTags(data, bp, size, false)
	format.PutTag(data, bp+int(size)-format.WordSize, 0, true)

	return a.coalesce(Ref(bp)), nil
}
