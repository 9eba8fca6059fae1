// Package histogram implements a fixed-bucket-width latency histogram,
// with merge and percentile derivation matching the sampling and
// aggregation policy of the benchmark harness in internal/bench.
package histogram

// Histogram is a fixed-width-bucket count of latency samples in
// nanoseconds. Samples at or beyond BucketWidthNS*len(Counts) are
// tallied in Overflow instead of a bucket.
type Histogram struct {
	BucketWidthNS int64
	Counts        []uint64
	Overflow      uint64
}

// New allocates a Histogram with the given bucket width and bucket count.
func New(bucketWidthNS int64, numBuckets int) *Histogram {
	return &Histogram{
		BucketWidthNS: bucketWidthNS,
		Counts:        make([]uint64, numBuckets),
	}
}

// Record adds weight to the bucket that latencyNS falls in, or to
// Overflow if latencyNS is beyond the last bucket. weight is normally 1
// for an exact sample or S for a 1-in-S sampled one.
func (h *Histogram) Record(latencyNS int64, weight uint64) {
	if latencyNS < 0 {
		latencyNS = 0
	}
	idx := latencyNS / h.BucketWidthNS
	if idx < 0 || int(idx) >= len(h.Counts) {
		h.Overflow += weight
		return
	}
	h.Counts[idx] += weight
}

// Merge adds other's counts and overflow into h elementwise. h and other
// must share the same bucket width and bucket count.
func (h *Histogram) Merge(other *Histogram) {
	for i := range other.Counts {
		h.Counts[i] += other.Counts[i]
	}
	h.Overflow += other.Overflow
}

// Stats is the set of derived percentile statistics for one histogram.
type Stats struct {
	P50              int64
	P95              int64
	P99              int64
	P999             int64
	Mean             int64
	SpikesOver10xP50 uint64
}

// Percentiles walks the cumulative histogram to derive p50/p95/p99/p999
// (reported as each target bucket's midpoint) and the sample-weighted
// mean. Overflow samples are excluded from the rank and mean denominator —
// only bucketed samples carry percentile precision — but are still folded
// into SpikesOver10xP50, alongside any bucketed sample past 10x p50.
//
// Returns the zero Stats if the histogram has no bucketed samples, even if
// Overflow is nonzero.
func (h *Histogram) Percentiles() Stats {
	var total uint64
	for _, c := range h.Counts {
		total += c
	}
	if total == 0 {
		return Stats{}
	}

	w := h.BucketWidthNS
	rank50 := ceilDiv(total*50, 100)
	rank95 := ceilDiv(total*95, 100)
	rank99 := ceilDiv(total*99, 100)
	rank999 := ceilDiv(total*999, 1000)

	var cumulative uint64
	var p50Idx, p95Idx, p99Idx, p999Idx int
	var p50Found, p95Found, p99Found, p999Found bool
	for i, c := range h.Counts {
		cumulative += c
		if !p50Found && cumulative >= rank50 {
			p50Idx, p50Found = i, true
		}
		if !p95Found && cumulative >= rank95 {
			p95Idx, p95Found = i, true
		}
		if !p99Found && cumulative >= rank99 {
			p99Idx, p99Found = i, true
		}
		if !p999Found && cumulative >= rank999 {
			p999Idx, p999Found = i, true
		}
	}
	// total is derived from Counts alone, so every rank is reachable by
	// the last bucket; these are defensive fallbacks only.
	if !p50Found {
		p50Idx = len(h.Counts) - 1
	}
	if !p95Found {
		p95Idx = len(h.Counts) - 1
	}
	if !p99Found {
		p99Idx = len(h.Counts) - 1
	}
	if !p999Found {
		p999Idx = len(h.Counts) - 1
	}

	var stats Stats
	stats.P50 = int64(p50Idx)*w + w/2
	stats.P95 = int64(p95Idx)*w + w/2
	stats.P99 = int64(p99Idx)*w + w/2
	stats.P999 = int64(p999Idx)*w + w/2

	var weightedSum float64
	for i, c := range h.Counts {
		weightedSum += float64(c) * (float64(i) + 0.5) * float64(w)
	}
	stats.Mean = int64(weightedSum / float64(total))

	spikeThreshold := 10 * stats.P50
	spikeIdx := int(spikeThreshold / w)
	if spikeIdx < len(h.Counts) {
		for i := spikeIdx; i < len(h.Counts); i++ {
			stats.SpikesOver10xP50 += h.Counts[i]
		}
	}
	stats.SpikesOver10xP50 += h.Overflow

	return stats
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
