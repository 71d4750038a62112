package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Allocator manages the arena: one explicit free list, first-fit placement,
// and boundary-tag coalescing. One instance owns one heap exclusively.
type Allocator struct {
	h      *heap.Heap
	config Config

	free  freeList
	stats Stats

	// Test hook: called with the extension size before each grow (nil in
	// production).
	onGrow func(int32)
}

// New initializes the arena (pad word, prologue and epilogue sentinels) and
// seeds the free list with one chunk. It fails with ErrInit when the growth
// primitive cannot supply the initial bytes; the allocator must not be used
// after that.
func New(h *heap.Heap, config *Config) (*Allocator, error) {
	if config == nil {
		config = &DefaultConfig
	}
	cfg := *config
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = format.ChunkSize
	}
	if cfg.ChunkSize > format.MaxChunkSize {
		cfg.ChunkSize = format.MaxChunkSize
	}
	cfg.ChunkSize = format.Align8I32(cfg.ChunkSize)

	a := &Allocator{h: h, config: cfg}

	off, err := h.Sbrk(4 * format.WordSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	if off != 0 {
		// The layout below assumes a fresh arena: pad word at offset 0.
		return nil, fmt.Errorf("%w: arena not empty (break at %d)", ErrInit, off)
	}

	data := h.Bytes()
	format.PutU32(data, 0, 0)                                                 // alignment padding
	format.PutTag(data, format.HeaderOff(format.PrologueOff), format.PrologueSize, true) // prologue header
	format.PutTag(data, format.PrologueOff, format.PrologueSize, true)        // prologue footer
	format.PutTag(data, format.PrologueOff+format.WordSize, 0, true)          // epilogue header

	if _, err := a.extendHeap(cfg.ChunkSize / format.WordSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	return a, nil
}

// Alloc returns a block with at least size usable bytes. The ref is the
// 8-aligned payload offset and the slice covers the full payload (which may
// exceed size by alignment slack). A size of zero or less is a no-op
// returning the nil ref; a size beyond the arena limit fails with ErrNoSpace.
func (a *Allocator) Alloc(size int32) (Ref, []byte, error) {
	a.stats.AllocCalls++
	if size <= 0 {
		return NilRef, nil, nil
	}

	// Adjusted sizes are 32-bit: a request within one minimum block of the
	// arena limit cannot be represented, let alone placed.
	if size > format.MaxArenaSize-format.MinBlockSize {
		return NilRef, nil, fmt.Errorf("%w: request of %d bytes exceeds the %d-byte arena limit",
			ErrNoSpace, size, format.MaxArenaSize)
	}

	asize := adjustSize(size)

	if bp := a.findFit(asize); bp != NilRef {
		a.stats.AllocFastPath++
		a.place(bp, asize)
		return a.payload(bp)
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] need grow: need=%d, free blocks=%d\n", asize, a.free.count())
	}

	extend := asize
	if extend < a.config.ChunkSize {
		extend = a.config.ChunkSize
	}
	bp, err := a.extendHeap(extend / format.WordSize)
	if err != nil {
		return NilRef, nil, err
	}
	a.stats.AllocSlowPath++
	a.place(bp, asize)
	return a.payload(bp)
}

// Free returns the block at ref to the free list after merging it with any
// free physical neighbor. Out-of-bounds or misaligned refs fail with
// ErrBadRef and a double free with ErrNotAllocated; a ref that never came
// from Alloc but happens to pass those checks is undefined behavior.
func (a *Allocator) Free(ref Ref) error {
	a.stats.FreeCalls++

	data := a.h.Bytes()
	if err := checkRef(data, ref); err != nil {
		return err
	}
	size, allocated := format.ReadTag(data, format.HeaderOff(int(ref)))
	if !allocated {
		return ErrNotAllocated
	}

	format.WriteTags(data, int(ref), size, false)
	a.stats.BytesFreed += int64(size)
	a.coalesce(ref)
	return nil
}

// Realloc resizes the allocation at ref: allocate-new, copy-min(old,new)
// payload bytes, free-old. It never extends in place. A nil ref behaves as
// Alloc; a size of zero or less frees the block and returns the nil ref.
func (a *Allocator) Realloc(ref Ref, size int32) (Ref, []byte, error) {
	a.stats.ReallocCalls++

	if ref == NilRef {
		return a.Alloc(size)
	}
	if size <= 0 {
		if err := a.Free(ref); err != nil {
			return NilRef, nil, err
		}
		return NilRef, nil, nil
	}

	data := a.h.Bytes()
	if err := checkRef(data, ref); err != nil {
		return NilRef, nil, err
	}
	oldSize, allocated := format.ReadTag(data, format.HeaderOff(int(ref)))
	if !allocated {
		return NilRef, nil, ErrNotAllocated
	}

	newRef, newPayload, err := a.Alloc(size)
	if err != nil {
		return NilRef, nil, err
	}

	// Re-slice after Alloc: the arena may have grown. Offsets are stable.
	data = a.h.Bytes()
	oldPayload := data[int(ref) : int(ref)+int(oldSize)-format.Overhead]
	copy(newPayload, oldPayload)

	if err := a.Free(ref); err != nil {
		return NilRef, nil, err
	}
	return newRef, newPayload, nil
}

// Check runs the consistency checker over the physical block chain and the
// free list and returns every violated invariant. Diagnostic only: it never
// repairs, and it is never called on the allocation path. With verbose set
// it first dumps the block chain to stderr.
func (a *Allocator) Check(verbose bool) []error {
	if verbose {
		a.dumpHeap(os.Stderr)
	}
	return verify.Violations(a.h.Bytes(), int(a.free.head), a.free.count())
}

// Stats returns a copy of the running statistics.
func (a *Allocator) Stats() Stats { return a.stats }

// FreeCount returns the number of blocks on the free list.
func (a *Allocator) FreeCount() int { return a.free.count() }

// findFit runs a first-fit scan over the free list in LIFO order. The scan
// is bounded by the list count as well as the nil successor, so a broken
// link chain can never spin it.
func (a *Allocator) findFit(asize int32) Ref {
	data := a.h.Bytes()
	bp := a.free.head
	for i := 0; i < a.free.count() && bp != NilRef; i++ {
		if format.BlockSize(data, int(bp)) >= asize {
			return bp
		}
		bp = succOf(data, bp)
	}
	return NilRef
}

// place carves asize bytes out of the free block at bp. The block leaves the
// free list before its tag flips to allocated; a block is never both listed
// and allocated. A remainder of at least one minimum block is split off and
// re-inserted, anything smaller is absorbed.
func (a *Allocator) place(bp Ref, asize int32) {
	data := a.h.Bytes()
	csize := format.BlockSize(data, int(bp))
	debugLogf("place: bp=0x%X asize=%d csize=%d", bp, asize, csize)

	a.free.remove(data, bp)

	if csize-asize >= format.MinBlockSize {
		a.stats.SplitCount++
		format.WriteTags(data, int(bp), asize, true)
		rem := int(bp) + int(asize)
		format.WriteTags(data, rem, csize-asize, false)
		a.free.insert(data, Ref(rem))
		a.stats.BytesAllocated += int64(asize)
	} else {
		format.WriteTags(data, int(bp), csize, true)
		a.stats.BytesAllocated += int64(csize)
	}
}

// payload returns the ref and payload slice for the allocated block at bp.
func (a *Allocator) payload(bp Ref) (Ref, []byte, error) {
	data := a.h.Bytes()
	size := format.BlockSize(data, int(bp))
	return bp, data[int(bp) : int(bp)+int(size)-format.Overhead], nil
}

// adjustSize converts a payload request into a block size: tag overhead
// added, 8-byte aligned, floored at the minimum block size so a free block
// always has room for its two link words. The caller keeps size at most
// MaxArenaSize-MinBlockSize so the arithmetic cannot wrap.
func adjustSize(size int32) int32 {
	if size <= format.DWordSize {
		return format.MinBlockSize
	}
	return format.Align8I32(size + format.Overhead)
}

// checkRef rejects refs that cannot be a live payload offset: nil, below the
// first possible block, misaligned, or with a tag that runs outside the
// arena. This is a cheap gate, not full validation; Check does the rest.
func checkRef(data []byte, ref Ref) error {
	bp := int(ref)
	if ref == NilRef || bp < format.PrologueOff+format.PrologueSize || !format.Aligned(bp) {
		return ErrBadRef
	}
	if bp+format.WordSize > len(data) {
		return ErrBadRef
	}
	size, _ := format.ReadTag(data, format.HeaderOff(bp))
	// The last legitimate block ends where the epilogue's payload would start,
	// so bp+size can equal the arena size but never exceed it.
	if size < format.MinBlockSize || !format.Aligned(int(size)) || bp+int(size) > len(data) {
		return ErrBadRef
	}
	return nil
}
