// Package arena implements a dense, free-list-backed slot allocator.
//
// It is the storage primitive behind the net's port and cell tables
// (see pkg/inet): allocation and lookup are O(1), freed slots are
// recycled for new entries, and live identifiers stay small integers
// even after heavy churn, per the index-based arena design the engine
// relies on.
package arena

import (
	"golang.org/x/exp/constraints"
)

// Arena stores values of type V, addressed by identifiers of type K.
// K is expected to be a small unsigned integer type used as a dense
// slot index (e.g. a PortID or CellID).
type Arena[K constraints.Unsigned, V any] struct {
	slots []V
	alive []bool
	free  []K
}

// New returns an empty arena.
func New[K constraints.Unsigned, V any]() *Arena[K, V] {
	return &Arena[K, V]{}
}

// Alloc stores v in a free slot (recycled or newly appended) and
// returns its identifier. Never fails.
func (a *Arena[K, V]) Alloc(v V) K {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[id] = v
		a.alive[id] = true
		return id
	}
	id := K(len(a.slots))
	a.slots = append(a.slots, v)
	a.alive = append(a.alive, true)
	return id
}

// Free releases id back to the free list so a later Alloc may reuse
// the slot. Reports whether id was live.
func (a *Arena[K, V]) Free(id K) bool {
	if !a.IsAlive(id) {
		return false
	}
	a.alive[id] = false
	var zero V
	a.slots[id] = zero
	a.free = append(a.free, id)
	return true
}

// Get returns the value stored at id and whether id is currently live.
func (a *Arena[K, V]) Get(id K) (V, bool) {
	if !a.IsAlive(id) {
		var zero V
		return zero, false
	}
	return a.slots[id], true
}

// Set overwrites the value stored at id. Reports whether id is live.
func (a *Arena[K, V]) Set(id K, v V) bool {
	if !a.IsAlive(id) {
		return false
	}
	a.slots[id] = v
	return true
}

// IsAlive reports whether id currently refers to a live entry.
func (a *Arena[K, V]) IsAlive(id K) bool {
	return int(id) >= 0 && int(id) < len(a.alive) && a.alive[id]
}

// Len returns the number of live entries.
func (a *Arena[K, V]) Len() int {
	n := 0
	for _, ok := range a.alive {
		if ok {
			n++
		}
	}
	return n
}

// Ids returns the identifiers of all live entries in ascending order.
// This order is what the engine treats as "arena order" for its
// deterministic active-pair scan.
func (a *Arena[K, V]) Ids() []K {
	ids := make([]K, 0, a.Len())
	for i, ok := range a.alive {
		if ok {
			ids = append(ids, K(i))
		}
	}
	return ids
}
