package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"producers", "consumers", "capacity", "blocking",
	"pinning_on", "padding_on", "large_payload", "move_only_payload",
	"warmup_ms", "duration_ms", "wall_time_ns",
	"pushes_ok", "pops_ok", "try_push_failures", "try_pop_failures",
	"try_push_failures_pct", "try_pop_failures_pct",
	"push_ops_per_sec", "pop_ops_per_sec",
	"push_lat_min_ns", "push_lat_p50_ns", "push_lat_p95_ns", "push_lat_p99_ns",
	"push_lat_p999_ns", "push_lat_max_ns", "push_lat_mean_ns",
	"push_spikes_over_10x_p50_pct",
	"pop_lat_min_ns", "pop_lat_p50_ns", "pop_lat_p95_ns", "pop_lat_p99_ns",
	"pop_lat_p999_ns", "pop_lat_max_ns", "pop_lat_mean_ns",
	"pop_spikes_over_10x_p50_pct",
	"hist_bucket_ns", "push_overflow_pct", "pop_overflow_pct",
	"push_hist_bins", "pop_hist_bins",
	"notes",
}

// AppendCSV appends one row summarizing r to the CSV file at path,
// writing the header first if the file doesn't yet exist or is empty.
// Parent directories are created as needed.
func AppendCSV(path string, r Results) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("bench: creating csv directory: %w", err)
		}
	}

	needsHeader := false
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("bench: opening csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("bench: writing csv header: %w", err)
		}
	}
	if err := w.Write(csvRow(r)); err != nil {
		return fmt.Errorf("bench: writing csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func csvRow(r Results) []string {
	c := r.Config
	pushOpsTotal := r.PushesOK + r.TryPushFailures
	popOpsTotal := r.PopsOK + r.TryPopFailures

	return []string{
		itoa(c.NumProducers), itoa(c.NumConsumers), itoa(c.Capacity), boolStr(c.Blocking),
		boolStr(c.PinningOn), boolStr(c.PaddingOn), boolStr(c.LargePayload), boolStr(c.MoveOnlyPayload),
		itoa(c.WarmupMS), itoa(c.DurationMS), u64(uint64(r.WallTime.Nanoseconds())),
		u64(r.PushesOK), u64(r.PopsOK), u64(r.TryPushFailures), u64(r.TryPopFailures),
		pct(r.TryPushFailures, pushOpsTotal), pct(r.TryPopFailures, popOpsTotal),
		f64(r.PushOpsPerSec()), f64(r.PopOpsPerSec()),
		i64(r.PushLatencies.MinNS), i64(r.PushLatencies.P50NS), i64(r.PushLatencies.P95NS), i64(r.PushLatencies.P99NS),
		i64(r.PushLatencies.P999NS), i64(r.PushLatencies.MaxNS), i64(r.PushLatencies.MeanNS),
		pct(r.PushLatencies.SpikesOver10xP50, r.PushesOK),
		i64(r.PopLatencies.MinNS), i64(r.PopLatencies.P50NS), i64(r.PopLatencies.P95NS), i64(r.PopLatencies.P99NS),
		i64(r.PopLatencies.P999NS), i64(r.PopLatencies.MaxNS), i64(r.PopLatencies.MeanNS),
		pct(r.PopLatencies.SpikesOver10xP50, r.PopsOK),
		i64(c.HistogramBucketWidthNS), pct(r.PushOverflows, r.PushesOK), pct(r.PopOverflows, r.PopsOK),
		histBins(r.PushHistogram.Counts), histBins(r.PopHistogram.Counts),
		c.Notes,
	}
}

func histBins(counts []uint64) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = u64(c)
	}
	return strings.Join(parts, ";")
}

func itoa(v int) string     { return strconv.Itoa(v) }
func i64(v int64) string    { return strconv.FormatInt(v, 10) }
func u64(v uint64) string   { return strconv.FormatUint(v, 10) }
func f64(v float64) string  { return strconv.FormatFloat(v, 'f', 3, 64) }
func boolStr(b bool) string { return strconv.FormatBool(b) }

func pct(num, denom uint64) string {
	if denom == 0 {
		return "0.000"
	}
	return strconv.FormatFloat(100*float64(num)/float64(denom), 'f', 3, 64)
}
