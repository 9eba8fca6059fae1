//go:build amd64

package cycle

// New returns the best available Counter for the current platform: the
// raw TSC on amd64. Callers still need Calibrate to convert tick deltas
// to nanoseconds.
func New() Counter {
	return NewTSC()
}
