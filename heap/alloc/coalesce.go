package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block at bp with whichever physical neighbors are
// free and returns the merged block's identity. Invoked on every free and on
// every arena extension. The prologue and epilogue tags are permanently
// allocated, so the edge blocks never need special cases.
//
// Four boundary-tag cases:
//
//	1. both neighbors allocated: insert bp as is
//	2. successor free:           fold it into bp
//	3. predecessor free:         fold bp into it; identity moves back
//	4. both free:                fold all three; identity moves back
//
// After coalesce returns, the block is free, on the free list exactly once,
// and has no free physical neighbor.
func (a *Allocator) coalesce(bp Ref) Ref {
	data := a.h.Bytes()
	b := int(bp)
	size := format.BlockSize(data, b)

	// Predecessor state from its footer, which sits right before our header.
	_, prevAlloc := format.ReadTag(data, b-format.Overhead)
	next := format.NextOff(data, b)
	nextAlloc := format.BlockAlloc(data, next)

	switch {
	case prevAlloc && nextAlloc: // Case 1

	case prevAlloc && !nextAlloc: // Case 2
		a.stats.CoalesceForward++
		a.free.remove(data, Ref(next))
		size += format.BlockSize(data, next)
		format.WriteTags(data, b, size, false)

	case !prevAlloc && nextAlloc: // Case 3
		a.stats.CoalesceBackward++
		prev := format.PrevOff(data, b)
		a.free.remove(data, Ref(prev))
		size += format.BlockSize(data, prev)
		b = prev
		format.WriteTags(data, b, size, false)

	default: // Case 4
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
		prev := format.PrevOff(data, b)
		a.free.remove(data, Ref(next))
		a.free.remove(data, Ref(prev))
		size += format.BlockSize(data, next) + format.BlockSize(data, prev)
		b = prev
		format.WriteTags(data, b, size, false)
	}

	debugLogf("coalesce: bp=0x%X -> 0x%X size=%d", bp, b, size)
	a.free.insert(data, Ref(b))
	return Ref(b)
}
