package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Snapshot captures the current block chain and free list. Read-only; the
// walk is bounded by the arena size and the free-list count, so it is safe
// to call even on a damaged arena (truncating at the first absurd tag).
func (a *Allocator) Snapshot() Snapshot {
	data := a.h.Bytes()
	snap := Snapshot{
		ArenaSize: len(data),
		FreeHead:  a.free.head,
		FreeCount: a.free.count(),
		Stats:     a.stats,
	}

	// Physical chain from the prologue to the epilogue. The epilogue's
	// payload offset equals the arena size (its header is the last word).
	for bp := format.PrologueOff; bp <= len(data); {
		size, allocated := format.ReadTag(data, format.HeaderOff(bp))
		info := BlockInfo{Ref: Ref(bp), Size: size, Allocated: allocated}
		if size == 0 { // epilogue
			info.FooterSize, info.FooterAllocated = size, allocated
			snap.Blocks = append(snap.Blocks, info)
			break
		}
		if size < format.MinBlockSize && bp != format.PrologueOff || bp+int(size) > len(data) {
			// Corrupt tag; stop rather than walk out of the arena.
			snap.Blocks = append(snap.Blocks, info)
			break
		}
		info.FooterSize, info.FooterAllocated = format.ReadTag(data, format.FooterOff(data, bp))
		snap.Blocks = append(snap.Blocks, info)
		bp = format.NextOff(data, bp)
	}

	// Free list in LIFO order, bounded by the count.
	bp := a.free.head
	for i := 0; i < snap.FreeCount && bp != NilRef; i++ {
		snap.FreeList = append(snap.FreeList, bp)
		bp = succOf(data, bp)
	}
	return snap
}
