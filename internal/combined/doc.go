// Package combined holds benchmarks that compare internal/ring against
// alternative queue implementations rather than measuring it in
// isolation, so regressions in relative standing are visible alongside
// the harness's own throughput/latency numbers.
package combined
