// Package signal coordinates the harness's warmup -> collecting -> done
// phase transitions across many producer/consumer goroutines, each
// polling the flags in its own hot loop rather than selecting on a
// channel.
package signal

import "sync/atomic"

// Flag is a one-shot atomic signal: many goroutines poll Is() concurrently
// with a single goroutine calling Set(). A run uses two independent Flags,
// collecting and done, each flipped exactly once as the harness moves from
// warmup into measurement and from measurement into teardown.
type Flag struct {
	set atomic.Bool
}

// New returns an unset Flag.
func New() *Flag {
	return &Flag{}
}

// Is reports whether Set has been called.
func (f *Flag) Is() bool {
	return f.set.Load()
}

// Set raises the flag. Safe to call multiple times; later calls are
// no-ops.
func (f *Flag) Set() {
	f.set.Store(true)
}

// Reset lowers the flag. Not safe to call concurrently with Is() or Set();
// only useful when reusing a Flag across runs rather than allocating a
// fresh one.
func (f *Flag) Reset() {
	f.set.Store(false)
}
