//go:build !amd64

package cycle

// New returns the best available Counter for the current platform: the
// runtime's monotonic clock, since no stable cycle counter is wired up
// for this architecture.
func New() Counter {
	return NewFallback()
}
