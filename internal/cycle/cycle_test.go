package cycle_test

import (
	"testing"
	"time"

	"github.com/lfring/mpmcbench/internal/cycle"
)

func TestFallback_Monotonic(t *testing.T) {
	c := cycle.NewFallback()
	a := c.Read()
	time.Sleep(time.Millisecond)
	b := c.Read()
	if b <= a {
		t.Errorf("Fallback.Read() not monotonic: %d then %d", a, b)
	}
}

func TestCalibrate_Fallback(t *testing.T) {
	nsPerTick := cycle.Calibrate(cycle.NewFallback(), 20*time.Millisecond)
	// Fallback ticks are nanoseconds already, so the ratio should be ~1.
	if nsPerTick < 0.5 || nsPerTick > 2 {
		t.Errorf("Calibrate(Fallback) = %f, expected close to 1", nsPerTick)
	}
}

func TestNew_Positive(t *testing.T) {
	c := cycle.New()
	nsPerTick := cycle.Calibrate(c, 20*time.Millisecond)
	if nsPerTick <= 0 {
		t.Errorf("Calibrate(New()) = %f, want > 0", nsPerTick)
	}
}
