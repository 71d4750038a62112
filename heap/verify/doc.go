// Package verify provides invariant checking for the arena block chain and
// the free list.
//
// # Overview
//
// The checker is a pure read-only traversal: it walks the physical block
// chain from the prologue sentinel to the epilogue and, separately, the free
// list from its head, and reports every violated invariant as a structured
// record. It never repairs anything; it is a diagnostic, not a recovery
// mechanism, and it is meant for tests and explicit check calls, never the
// allocation path.
//
// Validation categories:
//   - Sentinels: prologue has the sentinel size and is allocated; epilogue
//     has size zero, is allocated, and its header is the arena's last word
//   - Block chain: payload alignment, header/footer equality, size floor and
//     alignment, bounds, no two adjacent free blocks
//   - Free list: every member tagged free, mutually consistent
//     predecessor/successor links, no duplicates, count matches, and the
//     reachable set equals the set of physically free blocks
//
// # Usage
//
// Fail-fast on the first violation:
//
//	if err := verify.AllInvariants(data, head, count); err != nil {
//	    return fmt.Errorf("arena corrupted: %w", err)
//	}
//
// Collect everything for diagnostics:
//
//	for _, err := range verify.Violations(data, head, count) {
//	    log.Println(err)
//	}
//
// All violations are *ValidationError values carrying a category, a message,
// and the payload offset involved (-1 when no single offset applies).
package verify
