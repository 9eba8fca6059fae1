package bench

import (
	"math"
	"time"

	"github.com/lfring/mpmcbench/internal/histogram"
)

// LatencyStats is the derived percentile summary for one operation
// (push or pop) over a measurement window.
type LatencyStats struct {
	MinNS            int64
	P50NS            int64
	P95NS            int64
	P99NS            int64
	P999NS           int64
	MaxNS            int64
	MeanNS           int64
	SpikesOver10xP50 uint64
}

// Results is the harness's output record: throughput counters, latency
// summaries, and the raw histograms they were derived from.
type Results struct {
	Config   Config
	WallTime time.Duration

	PushesOK        uint64
	PopsOK          uint64
	TryPushFailures uint64
	TryPopFailures  uint64

	PushLatencies LatencyStats
	PopLatencies  LatencyStats

	PushHistogram *histogram.Histogram
	PopHistogram  *histogram.Histogram
	PushOverflows uint64
	PopOverflows  uint64
}

// newResults allocates a Results with fresh histograms sized per cfg.
func newResults(cfg Config) Results {
	return Results{
		Config:        cfg,
		PushHistogram: histogram.New(cfg.HistogramBucketWidthNS, cfg.HistogramMaxBuckets),
		PopHistogram:  histogram.New(cfg.HistogramBucketWidthNS, cfg.HistogramMaxBuckets),
		PushLatencies: LatencyStats{MinNS: math.MaxInt64},
		PopLatencies:  LatencyStats{MinNS: math.MaxInt64},
	}
}

// PushOpsPerSec is the successful push rate over the measurement window.
func (r Results) PushOpsPerSec() float64 {
	secs := r.WallTime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.PushesOK) / secs
}

// PopOpsPerSec is the successful pop rate over the measurement window.
func (r Results) PopOpsPerSec() float64 {
	secs := r.WallTime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.PopsOK) / secs
}

// combine folds a per-worker Results into the accumulator r.
func (r *Results) combine(other Results) {
	r.PushesOK += other.PushesOK
	r.PopsOK += other.PopsOK
	r.TryPushFailures += other.TryPushFailures
	r.TryPopFailures += other.TryPopFailures

	r.PushLatencies.MinNS = min64(r.PushLatencies.MinNS, other.PushLatencies.MinNS)
	r.PushLatencies.MaxNS = max64(r.PushLatencies.MaxNS, other.PushLatencies.MaxNS)
	r.PopLatencies.MinNS = min64(r.PopLatencies.MinNS, other.PopLatencies.MinNS)
	r.PopLatencies.MaxNS = max64(r.PopLatencies.MaxNS, other.PopLatencies.MaxNS)

	r.PushHistogram.Merge(other.PushHistogram)
	r.PopHistogram.Merge(other.PopHistogram)
	r.PushOverflows += other.PushOverflows
	r.PopOverflows += other.PopOverflows
}

// finalize derives percentile statistics from the combined histograms.
// Must be called once, after every worker's Results has been combined in.
func (r *Results) finalize() {
	if r.PushLatencies.MinNS == math.MaxInt64 {
		r.PushLatencies.MinNS = 0
	}
	if r.PopLatencies.MinNS == math.MaxInt64 {
		r.PopLatencies.MinNS = 0
	}

	pushStats := r.PushHistogram.Percentiles()
	r.PushLatencies.P50NS = pushStats.P50
	r.PushLatencies.P95NS = pushStats.P95
	r.PushLatencies.P99NS = pushStats.P99
	r.PushLatencies.P999NS = pushStats.P999
	r.PushLatencies.MeanNS = pushStats.Mean
	r.PushLatencies.SpikesOver10xP50 = pushStats.SpikesOver10xP50

	popStats := r.PopHistogram.Percentiles()
	r.PopLatencies.P50NS = popStats.P50
	r.PopLatencies.P95NS = popStats.P95
	r.PopLatencies.P99NS = popStats.P99
	r.PopLatencies.P999NS = popStats.P999
	r.PopLatencies.MeanNS = popStats.Mean
	r.PopLatencies.SpikesOver10xP50 = popStats.SpikesOver10xP50

	r.PushOverflows = r.PushHistogram.Overflow
	r.PopOverflows = r.PopHistogram.Overflow
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
