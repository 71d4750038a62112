//go:build unix

package membrk

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Reserve maps max bytes of zero-filled anonymous memory and returns the
// region plus a cleanup function that unmaps it.
func Reserve(max int) ([]byte, func() error, error) {
	if max < 0 {
		return nil, nil, fmt.Errorf("membrk: negative reservation (%d bytes)", max)
	}
	if max == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(-1, 0, max, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("membrk: mmap %d bytes: %w", max, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
