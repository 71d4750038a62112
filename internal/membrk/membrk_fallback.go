//go:build !unix

// Package membrk provides platform-specific helpers for reserving the arena
// backing store. The reservation is made once, up front, so the backing array
// never relocates while the arena grows into it.
package membrk

// Reserve allocates max bytes from the Go heap when mmap is not available.
func Reserve(max int) ([]byte, func() error, error) {
	if max <= 0 {
		return []byte{}, func() error { return nil }, nil
	}
	return make([]byte, max), func() error { return nil }, nil
}
