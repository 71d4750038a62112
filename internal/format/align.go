package format

// Alignment utilities for the arena block layout. Every block size and every
// payload offset must sit on the 8-byte double-word boundary.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + alignMask) & ^alignMask
}

// Align8I32 returns n aligned up to the next 8-byte boundary.
// int32 version for use in allocator code to avoid G115 warnings.
func Align8I32(n int32) int32 {
	return (n + alignMask) & ^int32(alignMask)
}

// Aligned reports whether n sits on an 8-byte boundary.
func Aligned(n int) bool {
	return n&alignMask == 0
}
