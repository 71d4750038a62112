package heap

import "errors"

var (
	// ErrArenaExhausted indicates the backing reservation cannot supply the
	// requested extension.
	ErrArenaExhausted = errors.New("heap: arena backing store exhausted")

	// ErrNegativeGrow indicates a negative Sbrk request. The arena never
	// shrinks.
	ErrNegativeGrow = errors.New("heap: negative grow request")

	// ErrClosed indicates use of a heap after Close.
	ErrClosed = errors.New("heap: closed")
)
