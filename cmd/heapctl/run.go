package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
)

var (
	runCheckEvery int
	runChunkSize  int32
	runMaxSize    int
	runDump       bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runCheckEvery, "check-every", 0, "Run the consistency checker every N ops (0 = only at the end)")
	cmd.Flags().Int32Var(&runChunkSize, "chunk-size", 0, "Arena extension granularity in bytes (0 = default)")
	cmd.Flags().IntVar(&runMaxSize, "max-size", heap.DefaultMaxSize, "Arena size cap in bytes")
	cmd.Flags().BoolVar(&runDump, "dump", false, "Print the final block chain")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay a trace against the allocator",
		Long: `The run command replays an allocation trace and verifies the arena
after it: every op must succeed and the consistency checker must pass.

Example:
  heapctl run workload.trace
  heapctl run workload.trace --check-every 100
  heapctl run workload.trace --dump --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args[0])
		},
	}
	return cmd
}

// traceResult is what a replay reports.
type traceResult struct {
	Trace       string      `json:"trace"`
	Ops         int         `json:"ops"`
	ArenaSize   int         `json:"arena_size"`
	PeakPayload int64       `json:"peak_payload"`
	Utilization float64     `json:"utilization"`
	Violations  int         `json:"violations"`
	Stats       alloc.Stats `json:"stats"`
}

func runTrace(path string) error {
	result, a, err := replayTrace(path)
	if err != nil {
		return err
	}

	if runDump {
		opts := printer.DefaultOptions()
		opts.ShowStats = verbose
		if jsonOut {
			opts.Format = printer.FormatJSON
		}
		if err := printer.New(os.Stdout, opts).Print(a.Snapshot()); err != nil {
			return err
		}
	}

	if jsonOut && !runDump {
		return printJSON(result)
	}

	printInfo("Replayed %d ops from %s\n", result.Ops, result.Trace)
	printInfo("  Arena:       %s\n", formatBytes(int64(result.ArenaSize)))
	printInfo("  Peak live:   %s\n", formatBytes(result.PeakPayload))
	printInfo("  Utilization: %.1f%%\n", result.Utilization*100)
	printVerbose("  Grow calls:  %d\n", result.Stats.GrowCalls)
	printVerbose("  Splits:      %d\n", result.Stats.SplitCount)
	printVerbose("  Coalesces:   %d forward, %d backward\n",
		result.Stats.CoalesceForward, result.Stats.CoalesceBackward)

	if result.Violations > 0 {
		return fmt.Errorf("%d invariant violations after replay", result.Violations)
	}
	printInfo("  Check:       clean\n")
	return nil
}

// replayTrace parses and executes a trace file, returning the replay report
// and the live allocator for optional dumping.
func replayTrace(path string) (*traceResult, *alloc.Allocator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	ops, err := parseTrace(f)
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Parsed %d ops\n", len(ops))

	h, err := heap.New(&heap.Options{MaxSize: runMaxSize})
	if err != nil {
		return nil, nil, err
	}

	var cfg *alloc.Config
	if runChunkSize > 0 {
		cfg = &alloc.Config{ChunkSize: runChunkSize}
	}
	a, err := alloc.New(h, cfg)
	if err != nil {
		return nil, nil, err
	}

	slots := make(map[int]alloc.Ref)
	sizes := make(map[int]int32)
	var live, peak int64

	for i, op := range ops {
		switch op.Kind {
		case opAlloc:
			ref, _, err := a.Alloc(op.Size)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: alloc %d: %w", op.Line, op.Size, err)
			}
			slots[op.ID] = ref
			sizes[op.ID] = op.Size
			live += int64(op.Size)

		case opRealloc:
			ref, ok := slots[op.ID]
			if !ok {
				return nil, nil, fmt.Errorf("line %d: realloc of unknown slot %d", op.Line, op.ID)
			}
			newRef, _, err := a.Realloc(ref, op.Size)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: realloc %d: %w", op.Line, op.Size, err)
			}
			live += int64(op.Size) - int64(sizes[op.ID])
			if op.Size == 0 {
				delete(slots, op.ID)
				delete(sizes, op.ID)
			} else {
				slots[op.ID] = newRef
				sizes[op.ID] = op.Size
			}

		case opFree:
			ref, ok := slots[op.ID]
			if !ok {
				return nil, nil, fmt.Errorf("line %d: free of unknown slot %d", op.Line, op.ID)
			}
			if err := a.Free(ref); err != nil {
				return nil, nil, fmt.Errorf("line %d: free slot %d: %w", op.Line, op.ID, err)
			}
			live -= int64(sizes[op.ID])
			delete(slots, op.ID)
			delete(sizes, op.ID)
		}

		if live > peak {
			peak = live
		}
		if runCheckEvery > 0 && (i+1)%runCheckEvery == 0 {
			if violations := a.Check(false); len(violations) > 0 {
				return nil, nil, fmt.Errorf("line %d: %v", op.Line, violations[0])
			}
		}
	}

	snap := a.Snapshot()
	result := &traceResult{
		Trace:       path,
		Ops:         len(ops),
		ArenaSize:   snap.ArenaSize,
		PeakPayload: peak,
		Violations:  len(a.Check(false)),
		Stats:       snap.Stats,
	}
	if snap.ArenaSize > 0 {
		result.Utilization = float64(peak) / float64(snap.ArenaSize)
	}
	return result, a, nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
