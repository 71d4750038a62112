// Package format houses the low-level boundary-tag layout of the arena. The
// goal is to keep the tag encoding and address arithmetic focused,
// allocation-free, and independent from the public API so higher-level
// packages can orchestrate blocks in a more ergonomic form.
package format

const (
	// WordSize is the size of one tag or link word in bytes. Every block
	// carries one header word at its start and one footer word at its end.
	WordSize = 4

	// DWordSize is the double-word alignment unit. All block sizes and all
	// payload offsets are multiples of 8.
	DWordSize = 8

	// Overhead is the number of bytes consumed by a block's header and
	// footer words combined.
	Overhead = 2 * WordSize

	// MinBlockSize is the minimum total block size: header, footer, and the
	// two link words a free block keeps in its payload. Requests that would
	// produce a smaller block are rounded up to it.
	MinBlockSize = Overhead + 2*WordSize

	// PadSize is the single alignment-padding word written at arena offset 0
	// so that every payload offset lands on an 8-byte boundary.
	PadSize = WordSize

	// PrologueSize is the size of the prologue sentinel block: header and
	// footer only, permanently allocated.
	PrologueSize = Overhead

	// PrologueOff is the payload offset of the prologue sentinel. The first
	// user block's payload always sits at PrologueOff + PrologueSize.
	PrologueOff = PadSize + WordSize

	// ChunkSize is the default arena extension in bytes. Growth requests
	// smaller than one chunk are rounded up to it.
	ChunkSize = 1 << 12

	// MaxArenaSize is the largest arena the tag encoding supports. Refs and
	// sizes are 32-bit, so offsets must stay below 2^31-1.
	MaxArenaSize = 0x7FFFFFFF

	// MaxChunkSize is the largest extension chunk: the arena limit rounded
	// down to the alignment unit, so aligning a chunk cannot wrap int32.
	MaxChunkSize = MaxArenaSize &^ alignMask

	// alignMask covers the tag bits spare below the alignment unit; sizes
	// are multiples of 8, so bits 0-2 hold the allocation flag.
	alignMask = DWordSize - 1
)
