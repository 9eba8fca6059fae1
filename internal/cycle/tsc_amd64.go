//go:build amd64

package cycle

// rdtsc reads the CPU's Time Stamp Counter.
// Implemented in tsc_amd64.s
func rdtsc() uint64

// TSC is a Counter backed by the x86 RDTSC instruction. It is the fastest
// available counter but its tick rate must be calibrated against wall
// clock time (see Calibrate) since the TSC frequency is not guaranteed to
// match the CPU's nominal clock under frequency scaling.
type TSC struct{}

// NewTSC returns an uncalibrated TSC counter. Callers derive a
// nanoseconds-per-tick ratio with Calibrate before converting deltas.
func NewTSC() *TSC { return &TSC{} }

// Read returns the current raw TSC value.
func (*TSC) Read() uint64 { return rdtsc() }
