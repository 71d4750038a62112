// Package alloc provides block allocation and free-list management for the
// arena.
//
// # Overview
//
// This package implements a boundary-tag allocator: every block carries a
// header and footer word encoding (size, allocated), free blocks are linked
// into one explicit doubly linked list with LIFO insertion, placement is
// first-fit over that list, and every free or arena growth runs exhaustive
// coalescing with the physical neighbors. A permanently allocated prologue
// and epilogue sentinel bound the arena so neighbor traversal never needs
// edge cases.
//
// # Allocator API
//
//	h, _ := heap.New(nil)
//	a, err := alloc.New(h, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Alloc(256)   // ref is the payload offset, buf the payload
//	copy(buf, payload)
//	ref, buf, err = a.Realloc(ref, 512)
//	err = a.Free(ref)
//
// Refs are offset-based handles: the payload offset of a block within the
// arena byte slice. NilRef (0) is the nil handle. Payload slices stay valid
// across growth because the arena backing array never relocates.
//
// # Placement and splitting
//
// Alloc rounds a request up to a block size (request + 8 bytes of tag
// overhead, 8-byte aligned, floor 16) and takes the first free block that
// fits, scanning the free list in LIFO order. If the remainder of the chosen
// block is at least one minimum block (16 bytes) it is split off, re-tagged
// free, and pushed onto the free list; otherwise the whole block is consumed
// and the remainder absorbed as internal fragmentation.
//
// # Coalescing
//
// Free re-tags the block and merges it with whichever physical neighbors are
// free (four boundary-tag cases). After any free or growth, no two free
// blocks are ever physically adjacent.
//
// # Growth
//
// When no free block fits, the allocator extends the arena by
// max(request, Config.ChunkSize) bytes via heap.Sbrk, folds the new region
// into a trailing free block if one exists, and places the request there.
// Growth failure surfaces as ErrNoSpace; the allocator stays valid and later
// calls may succeed once blocks are freed.
//
// # Diagnostics
//
// Check walks the physical block chain and the free list through the verify
// package and returns structured violations; it is never run on the hot
// path. Set HEAP_LOG_ALLOC to log allocation traffic to stderr.
//
// # Thread safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related packages
//
//   - github.com/joshuapare/heapkit/heap: arena ownership and growth primitive
//   - github.com/joshuapare/heapkit/heap/verify: invariant checking
//   - github.com/joshuapare/heapkit/heap/printer: snapshot rendering
//   - github.com/joshuapare/heapkit/internal/format: boundary-tag layout
package alloc
