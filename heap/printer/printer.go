// Package printer renders allocator snapshots for humans and tooling. It is
// a presentation layer only: it consumes alloc.Snapshot values and never
// touches the arena itself.
package printer

import (
	"io"

	"github.com/joshuapare/heapkit/heap/alloc"
)

const DefaultMaxBlocks = 0 // unlimited

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowFreeList includes the free list in LIFO order.
	// Default: true
	ShowFreeList bool

	// ShowStats includes allocator counters.
	// Default: false
	ShowStats bool

	// MaxBlocks limits how many blocks of the chain to display (0 = unlimited).
	// Default: 0 (unlimited)
	MaxBlocks int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		ShowFreeList: true,
		ShowStats:    false,
		MaxBlocks:    DefaultMaxBlocks,
	}
}

// Printer handles formatted output of allocator snapshots.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.Print(a.Snapshot())
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// Print renders a snapshot in the configured format.
func (p *Printer) Print(snap alloc.Snapshot) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(snap)
	case FormatText:
		return p.printText(snap)
	default:
		return p.printText(snap)
	}
}

// PrintStats renders only the allocator counters in the configured format.
func (p *Printer) PrintStats(stats alloc.Stats) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printStatsJSON(stats)
	default:
		return p.printStatsText(stats)
	}
}
