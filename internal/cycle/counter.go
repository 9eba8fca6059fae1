// Package cycle provides a monotonic high-resolution counter abstraction
// for latency measurement, plus a calibration routine to convert counter
// ticks into nanoseconds.
package cycle

import "time"

// Counter returns a monotonic 64-bit value advancing at a stable rate.
// Implementations are not required to tick in nanoseconds; use Calibrate
// to find the conversion ratio for a given Counter.
type Counter interface {
	Read() uint64
}

// Calibrate samples c before and after sleeping for window, and returns
// nanoseconds per tick. Blocks for approximately window.
func Calibrate(c Counter, window time.Duration) float64 {
	// warm up the read path so the first sample isn't skewed by any
	// one-time setup cost inside the implementation.
	c.Read()
	c.Read()

	start := c.Read()
	t1 := time.Now()
	time.Sleep(window)
	end := c.Read()
	t2 := time.Now()

	ticks := float64(end - start)
	nanos := float64(t2.Sub(t1).Nanoseconds())
	if ticks == 0 {
		return 1
	}
	return nanos / ticks
}
