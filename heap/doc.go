// Package heap owns the arena: one contiguous, monotonically growing byte
// range, backed by an up-front anonymous-memory reservation.
//
// The reservation is made once in New, so the backing array never relocates
// while the arena grows into it. That property is what lets the allocator
// hand out payload slices that stay valid across later growth.
//
// Heap exposes exactly the growth-primitive contract the allocator consumes:
//
//	h, err := heap.New(nil)
//	off, err := h.Sbrk(4096) // extend by 4096 bytes, get old break offset
//	data := h.Bytes()        // live prefix of the reservation
//
// Growth is a one-way ratchet: bytes are never returned to the reservation,
// and Sbrk fails with ErrArenaExhausted once the reservation is used up.
//
// Heap is not thread-safe. Callers must synchronize access externally.
package heap
