package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Ref is a block handle: the uint32 payload offset of a block within the
// arena byte slice. Handles replace raw pointers so all tag decoding stays
// pure arithmetic over offsets.
type Ref = uint32

// NilRef is the nil handle. No block payload can sit at offset 0; the arena
// starts with a pad word and the prologue sentinel.
const NilRef Ref = 0

// Config tunes the allocator.
type Config struct {
	// ChunkSize is the minimum arena extension in bytes. Growth requests are
	// rounded up to it so small allocations do not trigger one Sbrk each.
	// Rounded to the 8-byte alignment unit and clamped to format.MaxChunkSize.
	// Default: format.ChunkSize (4KB).
	ChunkSize int32
}

// DefaultConfig is used when New receives a nil config.
var DefaultConfig = Config{
	ChunkSize: format.ChunkSize,
}

// Stats holds internal allocator statistics, maintained incrementally and
// used by tests and the CLI for instrumentation.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls
	AllocFastPath    int   // Allocations served from the free list
	AllocSlowPath    int   // Allocations that required growing the arena
	FreeCalls        int   // Total Free() calls
	ReallocCalls     int   // Total Realloc() calls
	GrowCalls        int   // Arena extensions (including the initial seed)
	GrowBytes        int64 // Total bytes added by arena extensions
	SplitCount       int   // Number of block splits
	CoalesceForward  int   // Merges with the physical successor
	CoalesceBackward int   // Merges with the physical predecessor
	BytesAllocated   int64 // Total bytes allocated (including tag overhead)
	BytesFreed       int64 // Total bytes freed
}

// BlockInfo describes one physical block for snapshots and dumps.
type BlockInfo struct {
	Ref             Ref   // Payload offset
	Size            int32 // Total size from the header tag
	Allocated       bool  // Allocation flag from the header tag
	FooterSize      int32 // Size from the footer tag (equals Size unless corrupt)
	FooterAllocated bool  // Allocation flag from the footer tag
}

// Snapshot is a read-only view of the allocator state: the physical block
// chain from prologue to epilogue, the free list in LIFO order, and the
// running statistics. Presentation lives in the printer package.
type Snapshot struct {
	ArenaSize int
	FreeHead  Ref
	FreeCount int
	Blocks    []BlockInfo
	FreeList  []Ref
	Stats     Stats
}
