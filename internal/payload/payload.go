// Package payload provides the four element shapes the harness pushes
// through a ring: scalar or large, inline or uniquely-owned indirection.
// Large and/or indirect variants stress copy cost and allocator
// interaction the way the small inline scalar does not.
package payload

// Scalar is the smallest payload: a single 64-bit value, stored inline
// in the ring's slot.
type Scalar uint64

// NewScalar constructs a Scalar from a monotonically increasing counter.
func NewScalar(v uint64) Scalar { return Scalar(v) }

// LargeSize is the element count of Large, chosen so Large is exactly
// 1024 bytes (128 * 8).
const LargeSize = 128

// Large is a 1024-byte payload, stored inline in the ring's slot. Pushing
// and popping it copies the whole array by value.
type Large [LargeSize]uint64

// NewLarge constructs a Large whose first element is v; the rest is zero.
func NewLarge(v uint64) Large {
	var l Large
	l[0] = v
	return l
}

// ScalarPtr is a uniquely-owned pointer to a freshly allocated Scalar.
// Pushing it moves the pointer, not the pointee; it implements Destroyer
// so the ring's destructor-accounting path runs for every push/pop.
type ScalarPtr struct {
	V *uint64
}

// NewScalarPtr allocates a new uint64 holding v and returns an owning
// pointer to it.
func NewScalarPtr(v uint64) ScalarPtr {
	p := new(uint64)
	*p = v
	return ScalarPtr{V: p}
}

// Destroy releases the owned allocation. A no-op body is enough: Go's
// garbage collector reclaims the backing memory once unreferenced, but
// implementing Destroyer still exercises the ring's destruction path,
// which is the thing under test.
func (ScalarPtr) Destroy() {}

// LargePtr is a uniquely-owned pointer to a freshly allocated Large.
type LargePtr struct {
	V *Large
}

// NewLargePtr allocates a new Large whose first element is v.
func NewLargePtr(v uint64) LargePtr {
	l := &Large{}
	l[0] = v
	return LargePtr{V: l}
}

// Destroy releases the owned allocation. See ScalarPtr.Destroy.
func (LargePtr) Destroy() {}
