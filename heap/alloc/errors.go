package alloc

import "errors"

var (
	// ErrInit indicates the growth primitive could not supply the initial
	// sentinel and seed bytes. The allocator instance is unusable.
	ErrInit = errors.New("alloc: arena initialization failed")

	// ErrNoSpace indicates that no free block was large enough and the arena
	// could not be grown further. The allocator state remains valid.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadRef indicates an invalid, misaligned, or out-of-bounds block
	// reference.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrNotAllocated indicates Free or Realloc on a block whose tag is
	// already free (double free).
	ErrNotAllocated = errors.New("alloc: block is not allocated")
)
