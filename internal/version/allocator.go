package version

import "sync"

// Allocator hands out strictly increasing version numbers. The sequence
// starts at 1 and has no gaps: two concurrent callers are serialized under
// the mutex, so N calls always return exactly the set {1, ..., N}.
//
// The counter is not persisted. A restarted leader starts over at 1, which
// breaks uniqueness across process lifetimes; that is an accepted property
// of the system, not something the allocator compensates for.
type Allocator struct {
	mu      sync.Mutex
	current uint64
}

// NewAllocator creates an allocator whose first Next returns 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next atomically increments the counter and returns the new value.
func (a *Allocator) Next() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current++
	return a.current
}
