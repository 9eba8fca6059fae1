package payload_test

import (
	"testing"

	"github.com/lfring/mpmcbench/internal/payload"
)

func TestNewScalar(t *testing.T) {
	if payload.NewScalar(7) != 7 {
		t.Errorf("NewScalar(7) = %d, want 7", payload.NewScalar(7))
	}
}

func TestNewLarge(t *testing.T) {
	l := payload.NewLarge(9)
	if l[0] != 9 {
		t.Errorf("NewLarge(9)[0] = %d, want 9", l[0])
	}
	for i := 1; i < payload.LargeSize; i++ {
		if l[i] != 0 {
			t.Errorf("NewLarge(9)[%d] = %d, want 0", i, l[i])
		}
	}
}

func TestNewScalarPtr(t *testing.T) {
	p := payload.NewScalarPtr(3)
	if p.V == nil || *p.V != 3 {
		t.Errorf("NewScalarPtr(3).V = %v, want pointer to 3", p.V)
	}
	p.Destroy() // must not panic
}

func TestNewLargePtr(t *testing.T) {
	p := payload.NewLargePtr(5)
	if p.V == nil || p.V[0] != 5 {
		t.Errorf("NewLargePtr(5).V[0] = %v, want 5", p.V)
	}
	p.Destroy() // must not panic
}
