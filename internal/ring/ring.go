// Package ring implements a fixed-capacity, lock-free, multi-producer
// multi-consumer FIFO queue. Progress is lock-free: the system as a whole
// always makes progress, though an individual blocking operation can be
// delayed by a slow counterparty holding a claimed ticket.
package ring

import (
	"fmt"
	"sync/atomic"
)

// Destroyer is implemented by element types that own a resource which
// must be released exactly once when an element is removed from a Ring,
// whether by a successful Pop or by Close draining any still-live
// elements. Go has no destructors; this is the explicit substitute.
type Destroyer interface {
	Destroy()
}

type slot[T any] struct {
	seq  atomic.Uint64
	data T
}

// packedTickets holds head and tail adjacent, with no attempt to keep
// them off the same cache line. This is the measured false-sharing
// antipattern, kept only so the harness can demonstrate its cost.
type packedTickets struct {
	head atomic.Uint64
	tail atomic.Uint64
}

// paddedTickets holds head and tail on distinct cache lines from each
// other (each padded out to 64 bytes), so that a producer spinning on
// head never invalidates a consumer's cache line for tail, and vice
// versa.
type paddedTickets struct {
	head atomic.Uint64
	_    [56]byte
	tail atomic.Uint64
	_    [56]byte
}

// Ring is a bounded lock-free MPMC queue of elements of type T.
//
// A Ring owns its backing storage exclusively; it must not be copied
// (copying would alias the slot array and the head/tail atomics across
// two supposedly independent rings). Pass *Ring[T] around, never Ring[T].
type Ring[T any] struct {
	buf      []slot[T]
	mask     uint64
	capacity uint64

	// head and tail point into whichever of packedTickets/paddedTickets
	// was allocated in New, chosen by the WithPadding option. Using
	// pointers here keeps the hot path a single indirection, not an
	// interface call, while still letting the layout choice happen once
	// at construction rather than branching per operation.
	head *atomic.Uint64
	tail *atomic.Uint64

	// layout keeps whichever tickets struct is in use alive and pinned;
	// head/tail point inside it.
	layout any
}

// Option configures a Ring at construction.
type Option func(*ringConfig)

type ringConfig struct {
	padded bool
}

// WithPadding forces head and tail onto separate cache lines from each
// other (and from the slot array), eliminating false sharing between
// producers and consumers at the cost of two extra cache lines of memory.
// Without this option head and tail share a packedTickets struct — the
// configuration the harness measures as the false-sharing antipattern.
func WithPadding() Option {
	return func(c *ringConfig) { c.padded = true }
}

// New constructs a Ring of the given capacity, which must be a power of
// two and at least 2.
func New[T any](capacity int, opts ...Option) (*Ring[T], error) {
	if capacity < 2 {
		return nil, fmt.Errorf("ring: capacity must be >= 2, got %d", capacity)
	}
	if capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ring: capacity must be a power of two, got %d", capacity)
	}

	var cfg ringConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Ring[T]{
		buf:      make([]slot[T], capacity),
		mask:     uint64(capacity) - 1,
		capacity: uint64(capacity),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}

	if cfg.padded {
		l := &paddedTickets{}
		r.layout, r.head, r.tail = l, &l.head, &l.tail
	} else {
		l := &packedTickets{}
		r.layout, r.head, r.tail = l, &l.head, &l.tail
	}
	return r, nil
}

func (r *Ring[T]) slotAt(ticket uint64) *slot[T] {
	return &r.buf[ticket&r.mask]
}

// TryPush attempts a non-blocking push. Returns false if the ring is full.
func (r *Ring[T]) TryPush(v T) bool {
	for {
		ticket := r.head.Load()
		s := r.slotAt(ticket)
		seq := s.seq.Load()
		diff := int64(seq) - int64(ticket)

		switch {
		case diff > 0:
			continue // another producer already advanced; retry
		case diff < 0:
			return false // full
		default:
			if !r.head.CompareAndSwap(ticket, ticket+1) {
				continue
			}
			s.data = v
			s.seq.Store(ticket + 1)
			return true
		}
	}
}

// Push blocks until the push succeeds. It claims a ticket unconditionally
// and spins on the slot's sequence, so the caller must be prepared to
// complete the operation: abandoning a Push mid-spin (e.g. via a panic
// that unwinds past it) leaves that ticket's slot permanently claimed.
func (r *Ring[T]) Push(v T) {
	ticket := r.head.Add(1) - 1
	s := r.slotAt(ticket)
	for s.seq.Load() != ticket {
		cpuPause()
	}
	s.data = v
	s.seq.Store(ticket + 1)
}

// TryPop attempts a non-blocking pop. Returns the zero value and false if
// the ring is empty.
func (r *Ring[T]) TryPop() (T, bool) {
	for {
		ticket := r.tail.Load()
		s := r.slotAt(ticket)
		seq := s.seq.Load()
		diff := int64(seq) - int64(ticket+1)

		switch {
		case diff > 0:
			continue // stale; retry
		case diff < 0:
			var zero T
			return zero, false // empty
		default:
			if !r.tail.CompareAndSwap(ticket, ticket+1) {
				continue
			}
			v := s.data
			destroy(v)
			var zero T
			s.data = zero
			s.seq.Store(ticket + r.capacity)
			return v, true
		}
	}
}

// Pop blocks until an element is available. See Push for the same
// completion obligation on the claimed ticket.
func (r *Ring[T]) Pop() T {
	ticket := r.tail.Add(1) - 1
	s := r.slotAt(ticket)
	for s.seq.Load() != ticket+1 {
		cpuPause()
	}
	v := s.data
	destroy(v)
	var zero T
	s.data = zero
	s.seq.Store(ticket + r.capacity)
	return v
}

// Cap returns the ring's fixed capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// Len returns the ring's approximate occupancy. It is advisory — exact
// only when the ring is quiescent — since head and tail are read with
// independent loads.
func (r *Ring[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	size := head - tail
	if size > r.capacity {
		return int(r.capacity)
	}
	return int(size)
}

// Empty reports whether Len() == 0.
func (r *Ring[T]) Empty() bool { return r.Len() == 0 }

// Full reports whether Len() == Cap().
func (r *Ring[T]) Full() bool { return r.Len() == r.Cap() }

// Close destroys every element still live in the ring (the range
// [tail, head)) and releases the backing storage. It must be called at
// most once, after all producers and consumers have stopped; Close does
// not synchronize with concurrent Push/Pop.
func (r *Ring[T]) Close() {
	head := r.head.Load()
	tail := r.tail.Load()
	for t := tail; t != head; t++ {
		s := r.slotAt(t)
		if s.seq.Load() != t+1 {
			continue // not live: already drained or never written
		}
		destroy(s.data)
		var zero T
		s.data = zero
	}
	r.buf = nil
}

func destroy[T any](v T) {
	if d, ok := any(v).(Destroyer); ok {
		d.Destroy()
	}
}
