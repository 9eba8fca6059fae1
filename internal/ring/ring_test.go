package ring_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lfring/mpmcbench/internal/ring"
)

func TestNew_InvalidCapacity(t *testing.T) {
	for _, c := range []int{-1, 0, 1, 3, 5, 6, 7} {
		if _, err := ring.New[int](c); err == nil {
			t.Errorf("New(%d) = nil error, want error", c)
		}
	}
}

func TestNew_ValidCapacity(t *testing.T) {
	for _, c := range []int{2, 4, 8, 64, 1024} {
		r, err := ring.New[int](c)
		if err != nil {
			t.Errorf("New(%d) = %v, want nil", c, err)
		}
		if r.Cap() != c {
			t.Errorf("Cap() = %d, want %d", r.Cap(), c)
		}
	}
}

// Scenario 1: construct-query.
func TestConstructQuery(t *testing.T) {
	r, err := ring.New[int](8)
	if err != nil {
		t.Fatal(err)
	}
	if r.Cap() != 8 {
		t.Errorf("Cap() = %d, want 8", r.Cap())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if !r.Empty() {
		t.Error("Empty() = false, want true")
	}
	if r.Full() {
		t.Error("Full() = true, want false")
	}
}

// Scenario 2: capacity-2 wrap.
func TestCapacity2Wrap(t *testing.T) {
	r, err := ring.New[int](2)
	if err != nil {
		t.Fatal(err)
	}
	if !r.TryPush(1) {
		t.Fatal("TryPush(1) failed")
	}
	if !r.TryPush(2) {
		t.Fatal("TryPush(2) failed")
	}
	if r.TryPush(3) {
		t.Fatal("TryPush(3) on full ring succeeded, want failure")
	}
	if v, ok := r.TryPop(); !ok || v != 1 {
		t.Fatalf("TryPop() = (%d, %v), want (1, true)", v, ok)
	}
	if !r.TryPush(3) {
		t.Fatal("TryPush(3) after one pop failed")
	}
	if v, ok := r.TryPop(); !ok || v != 2 {
		t.Fatalf("TryPop() = (%d, %v), want (2, true)", v, ok)
	}
	if v, ok := r.TryPop(); !ok || v != 3 {
		t.Fatalf("TryPop() = (%d, %v), want (3, true)", v, ok)
	}
	if !r.Empty() {
		t.Error("Empty() = false, want true")
	}
}

// Scenario 3: wrap FIFO at capacity 64.
func TestWrapFIFO(t *testing.T) {
	r, err := ring.New[int](64)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		if !r.TryPush(i) {
			t.Fatalf("TryPush(%d) failed", i)
		}
	}
	for i := 0; i < 32; i++ {
		if v, ok := r.TryPop(); !ok || v != i {
			t.Fatalf("TryPop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	for i := 64; i < 96; i++ {
		if !r.TryPush(i) {
			t.Fatalf("TryPush(%d) failed", i)
		}
	}
	for i := 32; i < 96; i++ {
		if v, ok := r.TryPop(); !ok || v != i {
			t.Fatalf("TryPop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if !r.Empty() {
		t.Error("Empty() = false, want true")
	}
}

func TestTryPop_Empty(t *testing.T) {
	r, _ := ring.New[int](8)
	if _, ok := r.TryPop(); ok {
		t.Error("TryPop() on fresh ring succeeded, want failure")
	}
}

func TestTryPush_Full(t *testing.T) {
	r, _ := ring.New[int](2)
	r.TryPush(1)
	r.TryPush(2)
	if r.TryPush(3) {
		t.Error("TryPush() on full ring succeeded, want failure")
	}
}

func TestRoundTrip(t *testing.T) {
	r, _ := ring.New[int](8)
	r.TryPush(42)
	v, ok := r.TryPop()
	if !ok || v != 42 {
		t.Fatalf("TryPop() = (%d, %v), want (42, true)", v, ok)
	}
}

func TestFillDrainEmpty(t *testing.T) {
	const cap = 16
	r, _ := ring.New[int](cap)
	for i := 0; i < cap; i++ {
		if !r.TryPush(i) {
			t.Fatalf("TryPush(%d) failed", i)
		}
	}
	for i := 0; i < cap; i++ {
		r.TryPop()
	}
	if !r.Empty() || r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

// destroyCounter increments a shared counter exactly once when destroyed.
type destroyCounter struct {
	n *atomic.Int64
}

func (d destroyCounter) Destroy() {
	if d.n != nil {
		d.n.Add(1)
	}
}

// Scenario 4: destructor accounting.
func TestClose_DestroysLiveElements(t *testing.T) {
	const cap = 64
	r, _ := ring.New[destroyCounter](cap)

	var popDestroys atomic.Int64
	for i := 0; i < cap; i++ {
		r.TryPush(destroyCounter{n: &popDestroys})
	}

	// drain half: each successful TryPop destroys the element it removes.
	for i := 0; i < cap/2; i++ {
		r.TryPop()
	}
	if popDestroys.Load() != cap/2 {
		t.Fatalf("destroys from TryPop = %d, want %d", popDestroys.Load(), cap/2)
	}

	r.Close()
	if popDestroys.Load() != cap {
		t.Fatalf("destroys after Close = %d, want %d", popDestroys.Load(), cap)
	}
}

func TestSPSCConservation(t *testing.T) {
	n := 2_500_000
	if testing.Short() {
		n = 20_000
	}
	r, _ := ring.New[int](1024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.Push(i)
		}
	}()

	for i := 0; i < n; i++ {
		v := r.Pop()
		if v != i {
			t.Fatalf("pop %d: got %d, want %d", i, v, i)
		}
	}
	wg.Wait()

	if !r.Empty() {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestMPMCUniqueness(t *testing.T) {
	const (
		producers = 4
		consumers = 4
	)
	total := 2_500_000
	if testing.Short() {
		total = 40_000
	}

	r, _ := ring.New[int](1024)

	seen := make([]atomic.Bool, total)
	var produced, consumed atomic.Int64

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(p int) {
			defer pwg.Done()
			for v := p; v < total; v += producers {
				r.Push(v)
				produced.Add(1)
			}
		}(p)
	}

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				if produced.Load() == int64(total) && r.Empty() {
					return
				}
				v, ok := r.TryPop()
				if !ok {
					continue
				}
				if seen[v].Swap(true) {
					t.Errorf("value %d popped more than once", v)
				}
				consumed.Add(1)
				if consumed.Load() == int64(total) {
					return
				}
			}
		}()
	}

	pwg.Wait()
	cwg.Wait()

	for v := 0; v < total; v++ {
		if !seen[v].Load() {
			t.Errorf("value %d was never popped", v)
		}
	}
}

func TestPadding_SameBehavior(t *testing.T) {
	r, err := ring.New[int](8, ring.WithPadding())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if !r.TryPush(i) {
			t.Fatalf("TryPush(%d) failed", i)
		}
	}
	for i := 0; i < 8; i++ {
		if v, ok := r.TryPop(); !ok || v != i {
			t.Fatalf("TryPop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}
