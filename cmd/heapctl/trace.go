package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Trace op kinds.
const (
	opAlloc   = 'a'
	opRealloc = 'r'
	opFree    = 'f'
)

// traceOp is one line of a trace: allocate, reallocate, or free a numbered
// slot.
type traceOp struct {
	Kind byte
	ID   int
	Size int32
	Line int // 1-based source line, for error messages
}

// parseTrace reads a trace in the classic driver format:
//
//	a <id> <size>   allocate <size> bytes into slot <id>
//	r <id> <size>   reallocate slot <id> to <size> bytes
//	f <id>          free slot <id>
//
// Blank lines and lines starting with '#' are skipped, as are bare-integer
// header lines (slot counts and weights) that some trace producers emit.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := strconv.Atoi(line); err == nil {
			// Header line
			continue
		}

		fields := strings.Fields(line)
		op := traceOp{Kind: fields[0][0], Line: lineNo}
		if len(fields[0]) != 1 {
			return nil, fmt.Errorf("line %d: unknown op %q", lineNo, fields[0])
		}

		switch op.Kind {
		case opAlloc, opRealloc:
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: %q takes an id and a size", lineNo, string(op.Kind))
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad id %q", lineNo, fields[1])
			}
			size, err := strconv.ParseInt(fields[2], 10, 32)
			if err != nil || size < 0 {
				return nil, fmt.Errorf("line %d: bad size %q", lineNo, fields[2])
			}
			op.ID, op.Size = id, int32(size)

		case opFree:
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: %q takes an id", lineNo, string(op.Kind))
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad id %q", lineNo, fields[1])
			}
			op.ID = id

		default:
			return nil, fmt.Errorf("line %d: unknown op %q", lineNo, string(op.Kind))
		}

		if op.ID < 0 {
			return nil, fmt.Errorf("line %d: negative id %d", lineNo, op.ID)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ops, nil
}
