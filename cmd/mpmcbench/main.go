// Command mpmcbench drives the fixed-capacity MPMC ring through one
// producer/consumer workload and reports throughput and latency
// percentiles for pushes and pops.
//
// Usage:
//
//	go run ./cmd/mpmcbench -producers 4 -consumers 4 -capacity 65536
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lfring/mpmcbench/internal/bench"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mpmcbench:", err)
		os.Exit(1)
	}
}

func run() error {
	def := bench.DefaultConfig()

	var cfg bench.Config
	flag.IntVar(&cfg.NumProducers, "producers", def.NumProducers, "number of producer goroutines")
	flag.IntVar(&cfg.NumProducers, "p", def.NumProducers, "alias for -producers")
	flag.IntVar(&cfg.NumConsumers, "consumers", def.NumConsumers, "number of consumer goroutines")
	flag.IntVar(&cfg.NumConsumers, "c", def.NumConsumers, "alias for -consumers")
	flag.IntVar(&cfg.Capacity, "capacity", def.Capacity, "ring capacity, must be a power of two >= 2")
	flag.IntVar(&cfg.Capacity, "k", def.Capacity, "alias for -capacity")
	flag.BoolVar(&cfg.Blocking, "blocking", def.Blocking, "use blocking Push/Pop instead of TryPush/TryPop with backoff")
	flag.IntVar(&cfg.DurationMS, "duration-ms", def.DurationMS, "total run duration including warmup, in milliseconds")
	flag.IntVar(&cfg.DurationMS, "d", def.DurationMS, "alias for -duration-ms")
	flag.IntVar(&cfg.WarmupMS, "warmup-ms", def.WarmupMS, "warmup duration before measurement starts, in milliseconds")
	flag.IntVar(&cfg.WarmupMS, "w", def.WarmupMS, "alias for -warmup-ms")
	flag.Int64Var(&cfg.HistogramBucketWidthNS, "hist-bucket-ns", def.HistogramBucketWidthNS, "latency histogram bucket width, in nanoseconds")
	flag.IntVar(&cfg.HistogramMaxBuckets, "hist-buckets", def.HistogramMaxBuckets, "latency histogram bucket count")
	flag.BoolVar(&cfg.PinningOn, "pinning", def.PinningOn, "pin producer/consumer goroutines to CPUs (Linux only; no-op elsewhere)")
	flag.BoolVar(&cfg.PaddingOn, "padding", def.PaddingOn, "pad the ring's head/tail onto separate cache lines")
	flag.BoolVar(&cfg.LargePayload, "large-payload", def.LargePayload, "use a 1024-byte payload instead of a scalar")
	flag.BoolVar(&cfg.MoveOnlyPayload, "move-only-payload", def.MoveOnlyPayload, "use a uniquely-owned pointer payload instead of an inline value")
	flag.StringVar(&cfg.CSVPath, "csv", def.CSVPath, "path to append one CSV result row to")
	flag.StringVar(&cfg.Notes, "notes", def.Notes, "free-text note stored alongside the result row")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := bench.RunOnce(ctx, cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	printResults(res)

	if cfg.CSVPath != "" {
		if err := bench.AppendCSV(cfg.CSVPath, res); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		fmt.Printf("\nResult row appended to %s\n", cfg.CSVPath)
	}

	return nil
}

func printBanner(cfg bench.Config) {
	fmt.Println("mpmcbench: fixed-capacity lock-free MPMC ring benchmark")
	fmt.Println("─────────────────────────────────────────────────────────")
	fmt.Printf("  producers=%d consumers=%d capacity=%d blocking=%v\n",
		cfg.NumProducers, cfg.NumConsumers, cfg.Capacity, cfg.Blocking)
	fmt.Printf("  warmup=%dms duration=%dms pinning=%v padding=%v\n",
		cfg.WarmupMS, cfg.DurationMS, cfg.PinningOn, cfg.PaddingOn)
	fmt.Printf("  large_payload=%v move_only_payload=%v\n",
		cfg.LargePayload, cfg.MoveOnlyPayload)
	fmt.Println("─────────────────────────────────────────────────────────")
	fmt.Println()
}

func printResults(r bench.Results) {
	fmt.Println()
	fmt.Println("Results:")
	fmt.Println("─────────────────────────────────────────────────────────")
	fmt.Printf("  wall time:        %v\n", r.WallTime)
	fmt.Printf("  pushes ok:        %d (%.0f/s)\n", r.PushesOK, r.PushOpsPerSec())
	fmt.Printf("  pops ok:          %d (%.0f/s)\n", r.PopsOK, r.PopOpsPerSec())
	if !r.Config.Blocking {
		fmt.Printf("  try-push fails:   %d\n", r.TryPushFailures)
		fmt.Printf("  try-pop fails:    %d\n", r.TryPopFailures)
	}
	fmt.Println()
	fmt.Println("  push latency (ns):")
	printLatencyLine(r.PushLatencies)
	fmt.Println("  pop latency (ns):")
	printLatencyLine(r.PopLatencies)
}

func printLatencyLine(l bench.LatencyStats) {
	fmt.Printf("    min=%d p50=%d p95=%d p99=%d p999=%d max=%d mean=%d spikes>10xp50=%d\n",
		l.MinNS, l.P50NS, l.P95NS, l.P99NS, l.P999NS, l.MaxNS, l.MeanNS, l.SpikesOver10xP50)
}
