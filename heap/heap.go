package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/membrk"
)

// DefaultMaxSize is the backing reservation used when Options.MaxSize is zero.
// Anonymous pages are demand-zeroed, so reserving generously costs address
// space, not resident memory.
const DefaultMaxSize = 64 << 20

// Options controls arena reservation.
type Options struct {
	// MaxSize is the total backing reservation in bytes. Sbrk fails once the
	// break reaches it. Default: DefaultMaxSize. Capped at format.MaxArenaSize
	// because refs and tag sizes are 32-bit.
	MaxSize int
}

// Heap is the arena, backed by mmap (unix) or a byte slice (others).
type Heap struct {
	mem     []byte // full reservation; never relocates
	brk     int    // current break: bytes handed out so far
	release func() error
}

// New reserves the arena backing store and returns a heap with a zero break.
func New(opts *Options) (*Heap, error) {
	maxSize := DefaultMaxSize
	if opts != nil && opts.MaxSize > 0 {
		maxSize = opts.MaxSize
	}
	if maxSize > format.MaxArenaSize {
		return nil, fmt.Errorf("heap: reservation %d exceeds max arena size %d", maxSize, format.MaxArenaSize)
	}
	mem, release, err := membrk.Reserve(maxSize)
	if err != nil {
		return nil, err
	}
	return &Heap{mem: mem, release: release}, nil
}

// Bytes returns the live prefix of the reservation: every byte the allocator
// has obtained via Sbrk. The slice aliases the arena; it is not a copy.
func (h *Heap) Bytes() []byte { return h.mem[:h.brk] }

// Size returns the current break in bytes.
func (h *Heap) Size() int { return h.brk }

// Cap returns the total reservation in bytes.
func (h *Heap) Cap() int { return len(h.mem) }

// Sbrk extends the arena by n bytes and returns the offset of the new
// region's start (the old break). It fails with ErrArenaExhausted when the
// reservation cannot supply n more bytes; the break is left unchanged.
func (h *Heap) Sbrk(n int) (int, error) {
	if h.mem == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, ErrNegativeGrow
	}
	if h.brk+n > len(h.mem) {
		return 0, fmt.Errorf("%w: break %d + %d exceeds reservation %d", ErrArenaExhausted, h.brk, n, len(h.mem))
	}
	old := h.brk
	h.brk += n
	return old, nil
}

// Close releases the backing reservation. The heap is unusable afterwards.
func (h *Heap) Close() error {
	if h.mem == nil {
		return nil
	}
	h.mem = nil
	h.brk = 0
	if h.release == nil {
		return nil
	}
	err := h.release()
	h.release = nil
	return err
}
