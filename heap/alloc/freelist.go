package alloc

import "github.com/joshuapare/heapkit/internal/format"

// The free list is one unordered doubly linked list threaded through the
// payloads of free blocks: the predecessor ref is the word at bp, the
// successor ref the word at bp+4. Only this type reads or writes link words,
// and only for blocks whose tag says free, so allocated payloads can never
// alias stale links.
type freeList struct {
	head Ref
	n    int
}

func (fl *freeList) count() int { return fl.n }

// insert pushes bp as the new head (LIFO). O(1), no traversal; the trade-off
// is that scan order follows recency of freeing, not address order.
func (fl *freeList) insert(data []byte, bp Ref) {
	putPred(data, bp, NilRef)
	putSucc(data, bp, fl.head)
	if fl.head != NilRef {
		putPred(data, fl.head, bp)
	}
	fl.head = bp
	fl.n++
}

// remove splices bp out in O(1) using its own links, then clears them so a
// stale link can never be read back.
func (fl *freeList) remove(data []byte, bp Ref) {
	pred := predOf(data, bp)
	succ := succOf(data, bp)

	if pred != NilRef {
		putSucc(data, pred, succ)
	} else {
		fl.head = succ
	}
	if succ != NilRef {
		putPred(data, succ, pred)
	}

	putPred(data, bp, NilRef)
	putSucc(data, bp, NilRef)
	fl.n--
}

func predOf(data []byte, bp Ref) Ref {
	return format.ReadU32(data, int(bp))
}

func succOf(data []byte, bp Ref) Ref {
	return format.ReadU32(data, int(bp)+format.WordSize)
}

func putPred(data []byte, bp, pred Ref) {
	format.PutU32(data, int(bp), pred)
}

func putSucc(data []byte, bp, succ Ref) {
	format.PutU32(data, int(bp)+format.WordSize, succ)
}
