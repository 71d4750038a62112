package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Show fragmentation statistics after a trace replay",
		Long: `The stats command replays a trace and reports how the arena ended
up: free-space layout, fragmentation, and allocator counters.

Example:
  heapctl stats workload.trace
  heapctl stats workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsReport(args[0])
		},
	}
	return cmd
}

// ArenaReport is the fragmentation summary for one replayed trace.
type ArenaReport struct {
	Trace     string
	ArenaSize int

	TotalBlocks     int
	AllocatedBlocks int
	FreeBlocks      int

	AllocatedBytes int64
	FreeBytes      int64
	LargestFree    int32

	// 0 when all free space sits in one block, approaching 1 as it shatters.
	ExternalFragmentation float64

	Utilization  float64
	BlocksBySize map[string]int // free blocks bucketed by size
}

func runStatsReport(path string) error {
	result, a, err := replayTrace(path)
	if err != nil {
		return err
	}

	snap := a.Snapshot()
	report := ArenaReport{
		Trace:        path,
		ArenaSize:    snap.ArenaSize,
		Utilization:  result.Utilization,
		BlocksBySize: make(map[string]int),
	}

	for _, blk := range snap.Blocks {
		if blk.Size == 0 {
			continue // epilogue
		}
		report.TotalBlocks++
		if blk.Allocated {
			report.AllocatedBlocks++
			report.AllocatedBytes += int64(blk.Size)
			continue
		}
		report.FreeBlocks++
		report.FreeBytes += int64(blk.Size)
		if blk.Size > report.LargestFree {
			report.LargestFree = blk.Size
		}
		report.BlocksBySize[sizeBucket(blk.Size)]++
	}
	if report.FreeBytes > 0 {
		report.ExternalFragmentation = 1 - float64(report.LargestFree)/float64(report.FreeBytes)
	}

	if jsonOut {
		return printJSON(report)
	}

	printInfo("\nArena Report: %s\n", path)
	printInfo("  Arena size:  %s\n", formatBytes(int64(report.ArenaSize)))
	printInfo("  Utilization: %.1f%% (peak live / arena)\n", report.Utilization*100)
	printInfo("\nBlocks:\n")
	printInfo("  Total:     %d\n", report.TotalBlocks)
	printInfo("  Allocated: %d (%s)\n", report.AllocatedBlocks, formatBytes(report.AllocatedBytes))
	printInfo("  Free:      %d (%s)\n", report.FreeBlocks, formatBytes(report.FreeBytes))

	if report.FreeBlocks > 0 {
		printInfo("\nFree space:\n")
		printInfo("  Largest block: %s\n", formatBytes(int64(report.LargestFree)))
		printInfo("  Fragmentation: %.1f%%\n", report.ExternalFragmentation*100)

		buckets := make([]string, 0, len(report.BlocksBySize))
		for b := range report.BlocksBySize {
			buckets = append(buckets, b)
		}
		sort.Slice(buckets, func(i, j int) bool {
			return bucketRank(buckets[i]) < bucketRank(buckets[j])
		})
		for _, b := range buckets {
			printInfo("  %-8s %d blocks\n", b+":", report.BlocksBySize[b])
		}
	}

	printVerbose("\nCounters:\n")
	printVerbose("  Allocs: %d (%d reused, %d grew)\n",
		result.Stats.AllocCalls, result.Stats.AllocFastPath, result.Stats.AllocSlowPath)
	printVerbose("  Frees:  %d\n", result.Stats.FreeCalls)
	printVerbose("  Grows:  %d (%s)\n", result.Stats.GrowCalls, formatBytes(result.Stats.GrowBytes))
	return nil
}

func sizeBucket(size int32) string {
	switch {
	case size < 64:
		return "<64"
	case size < 1024:
		return "64-1K"
	case size < 16384:
		return "1K-16K"
	default:
		return ">16K"
	}
}

func bucketRank(bucket string) int {
	switch bucket {
	case "<64":
		return 0
	case "64-1K":
		return 1
	case "1K-16K":
		return 2
	default:
		return 3
	}
}
