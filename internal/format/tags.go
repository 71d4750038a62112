package format

// Boundary tags.
//
// Tag word layout (little-endian):
//
//	31                     3  2  1  0
//	-----------------------------------
//	| s  s  s  ... s  s  s  0  0  a/f |
//	-----------------------------------
//
// where s are the size bits (total block size including both tags, always a
// multiple of 8) and a/f is set iff the block is allocated. Every block
// carries the same word twice: a header at payload-4 and a footer at
// payload+size-8. The duplicated footer is what makes backward traversal and
// coalescing possible.
//
// All functions below take a payload offset ("bp"), never a header offset.

// Pack combines a block size and its allocation flag into a tag word.
func Pack(size int32, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= 1
	}
	return w
}

// Unpack splits a tag word into its size and allocation flag.
func Unpack(w uint32) (size int32, allocated bool) {
	return int32(w &^ alignMask), w&1 != 0
}

// ReadTag decodes the tag word at off.
func ReadTag(b []byte, off int) (size int32, allocated bool) {
	return Unpack(ReadU32(b, off))
}

// PutTag encodes a tag word at off.
func PutTag(b []byte, off int, size int32, allocated bool) {
	PutU32(b, off, Pack(size, allocated))
}

// HeaderOff returns the header offset of the block with payload offset bp.
func HeaderOff(bp int) int { return bp - WordSize }

// FooterOff returns the footer offset of the block with payload offset bp,
// derived from the size stored in its header.
func FooterOff(b []byte, bp int) int {
	return bp + int(BlockSize(b, bp)) - Overhead
}

// BlockSize returns the total size recorded in the header of the block at bp.
func BlockSize(b []byte, bp int) int32 {
	size, _ := ReadTag(b, HeaderOff(bp))
	return size
}

// BlockAlloc reports whether the header of the block at bp is marked allocated.
func BlockAlloc(b []byte, bp int) bool {
	_, allocated := ReadTag(b, HeaderOff(bp))
	return allocated
}

// WriteTags writes matching header and footer words for the block at bp.
func WriteTags(b []byte, bp int, size int32, allocated bool) {
	w := Pack(size, allocated)
	PutU32(b, HeaderOff(bp), w)
	PutU32(b, bp+int(size)-Overhead, w)
}

// NextOff returns the payload offset of the physically following block.
func NextOff(b []byte, bp int) int {
	return bp + int(BlockSize(b, bp))
}

// PrevOff returns the payload offset of the physically preceding block,
// derived from that block's footer, which sits immediately before bp's header.
func PrevOff(b []byte, bp int) int {
	prevSize, _ := ReadTag(b, bp-Overhead)
	return bp - int(prevSize)
}
