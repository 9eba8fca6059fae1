// Package pause provides a CPU pause hint for spin-wait loops.
package pause

import _ "unsafe" // for go:linkname

// CPU hints to the scheduler and the CPU that the calling goroutine is
// spinning, without giving up the thread. Use it inside tight retry loops
// that expect to succeed within a handful of iterations; for longer waits
// prefer runtime.Gosched or a channel.
//
//go:linkname CPU runtime.procyield
func CPU(cycles uint32)
