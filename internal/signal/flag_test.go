package signal_test

import (
	"testing"

	"github.com/lfring/mpmcbench/internal/signal"
)

func TestFlag(t *testing.T) {
	var f signal.Flag

	if f.Is() {
		t.Error("expected Is() = false before Set()")
	}

	f.Set()

	if !f.Is() {
		t.Error("expected Is() = true after Set()")
	}

	// Verify idempotent
	f.Set()
	if !f.Is() {
		t.Error("expected Is() = true after second Set()")
	}
}

func TestFlag_Reset(t *testing.T) {
	var f signal.Flag

	f.Set()
	if !f.Is() {
		t.Error("expected Is() = true after Set()")
	}

	f.Reset()
	if f.Is() {
		t.Error("expected Is() = false after Reset()")
	}
}
