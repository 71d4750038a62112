package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError is one violated invariant.
type ValidationError struct {
	Type    string // Error category (e.g. "Sentinel", "BlockChain", "FreeList")
	Message string // Human-readable description
	Offset  int    // Payload offset involved (-1 if N/A)
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates the block chain and the free list in one call.
// Returns the first violation encountered, or nil if all checks pass.
func AllInvariants(data []byte, head, count int) error {
	if violations := Violations(data, head, count); len(violations) > 0 {
		return violations[0]
	}
	return nil
}

// Arena validates the sentinels and the physical block chain. Returns the
// first violation, or nil.
func Arena(data []byte) error {
	if violations := arenaViolations(data); len(violations) > 0 {
		return violations[0]
	}
	return nil
}

// FreeList validates the free list against the physical state. head is the
// payload offset of the list head (0 for empty) and count the maintained
// list length. Returns the first violation, or nil.
func FreeList(data []byte, head, count int) error {
	if violations := freeListViolations(data, head, count); len(violations) > 0 {
		return violations[0]
	}
	return nil
}

// Violations collects every violated invariant instead of failing fast.
func Violations(data []byte, head, count int) []error {
	violations := arenaViolations(data)
	violations = append(violations, freeListViolations(data, head, count)...)
	return violations
}

const minArena = format.PadSize + format.PrologueSize + format.WordSize

func arenaViolations(data []byte) []error {
	var violations []error
	report := func(typ, msg string, off int) {
		violations = append(violations, &ValidationError{Type: typ, Message: msg, Offset: off})
	}

	if len(data) < minArena {
		report("BlockChain", fmt.Sprintf("arena too small: %d bytes (need %d)", len(data), minArena), -1)
		return violations
	}

	// Prologue sentinel.
	size, allocated := format.ReadTag(data, format.HeaderOff(format.PrologueOff))
	if size != format.PrologueSize || !allocated {
		report("Sentinel", fmt.Sprintf("bad prologue header: size=%d allocated=%v", size, allocated),
			format.PrologueOff)
	}

	prevFree := false
	bp := format.PrologueOff
	for bp <= len(data) {
		size, allocated := format.ReadTag(data, format.HeaderOff(bp))

		if size == 0 { // epilogue
			if !allocated {
				report("Sentinel", "epilogue not allocated", bp)
			}
			if bp != len(data) {
				report("Sentinel",
					fmt.Sprintf("epilogue at 0x%X but arena ends at 0x%X", bp, len(data)), bp)
			}
			return violations
		}

		if !format.Aligned(bp) {
			report("BlockChain", "payload not doubleword aligned", bp)
			return violations
		}
		if !format.Aligned(int(size)) {
			report("BlockChain", fmt.Sprintf("block size not doubleword aligned: %d", size), bp)
			return violations
		}
		if bp != format.PrologueOff && size < format.MinBlockSize {
			report("BlockChain", fmt.Sprintf("block below minimum size: %d", size), bp)
			return violations
		}
		if bp+int(size) > len(data) {
			report("BlockChain",
				fmt.Sprintf("block extends beyond arena: size=%d, arena=%d", size, len(data)), bp)
			return violations
		}

		ftrSize, ftrAlloc := format.ReadTag(data, format.FooterOff(data, bp))
		if ftrSize != size || ftrAlloc != allocated {
			report("BlockChain",
				fmt.Sprintf("header/footer mismatch: header=[%d:%v] footer=[%d:%v]",
					size, allocated, ftrSize, ftrAlloc), bp)
		}

		if !allocated && prevFree {
			report("BlockChain", "adjacent free blocks (coalescing missed)", bp)
		}
		prevFree = !allocated

		bp = format.NextOff(data, bp)
	}

	report("Sentinel", "no epilogue found", -1)
	return violations
}

func freeListViolations(data []byte, head, count int) []error {
	var violations []error
	report := func(msg string, off int) {
		violations = append(violations, &ValidationError{Type: "FreeList", Message: msg, Offset: off})
	}

	// The set of physically free blocks, for membership comparison.
	physFree := make(map[int]bool)
	for bp := format.PrologueOff; bp <= len(data); {
		size, allocated := format.ReadTag(data, format.HeaderOff(bp))
		if size == 0 {
			break
		}
		if size < 0 || !format.Aligned(int(size)) || bp+int(size) > len(data) {
			// The chain walk already reported this; membership comparison
			// would be meaningless.
			return violations
		}
		if !allocated {
			physFree[bp] = true
		}
		bp = format.NextOff(data, bp)
	}

	visited := make(map[int]bool, count)
	bp := head
	walked := 0
	for walked < count && bp != 0 {
		if bp < minArena || bp+2*format.WordSize > len(data) || !format.Aligned(bp) {
			report(fmt.Sprintf("link points outside the arena: 0x%X", bp), bp)
			return violations
		}
		if visited[bp] {
			report("block reachable twice from the head", bp)
			return violations
		}
		visited[bp] = true

		if format.BlockAlloc(data, bp) {
			report("list member is marked allocated", bp)
		}

		pred := int(format.ReadU32(data, bp))
		succ := int(format.ReadU32(data, bp+format.WordSize))
		if bp == head && pred != 0 {
			report("head has a non-nil predecessor link", bp)
		}
		if succ != 0 && succ+format.WordSize <= len(data) {
			succPred := int(format.ReadU32(data, succ))
			if succPred != bp {
				report(fmt.Sprintf("successor 0x%X does not link back", succ), bp)
			}
		}

		bp = succ
		walked++
	}

	if walked == count && bp != 0 {
		report(fmt.Sprintf("list longer than count %d", count), bp)
	}
	if walked < count {
		report(fmt.Sprintf("count is %d but only %d blocks reachable", count, walked), -1)
	}

	for bp := range physFree {
		if !visited[bp] {
			report("free block missing from the free list", bp)
		}
	}
	for bp := range visited {
		if !physFree[bp] {
			report("list member is not a physically free block", bp)
		}
	}
	return violations
}
