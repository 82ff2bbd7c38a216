// Package inflight tracks which message orders are being processed right now.
//
// A Registry is the only lease the dispatcher takes on an order: an id is in
// the registry exactly while a worker runs that order. Each dispatcher owns its
// own Registry; nothing here is process-global.
package inflight

import (
	"slices"
	"sync"

	"notice/internal/core/domain/model/kernel"
)

// Registry is a set of claimed order ids, safe for concurrent use by the poll
// loop and any number of workers.
type Registry struct {
	mu  sync.Mutex
	ids map[kernel.UUID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[kernel.UUID]struct{})}
}

// TryClaim inserts id if absent and reports whether this caller now holds it.
func (r *Registry) TryClaim(id kernel.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Release removes id. Releasing an id that is not held is a no-op.
func (r *Registry) Release(id kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ids, id)
}

// Contains reports whether id is currently claimed.
func (r *Registry) Contains(id kernel.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.ids[id]
	return ok
}

// Snapshot returns the claimed ids, sorted for stable query parameters.
func (r *Registry) Snapshot() []kernel.UUID {
	r.mu.Lock()
	ids := make([]kernel.UUID, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		ab, bb := a.Bytes(), b.Bytes()
		return slices.Compare(ab[:], bb[:])
	})
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.ids)
}
