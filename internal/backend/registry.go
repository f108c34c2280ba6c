package backend

import (
	"sync"

	"mediatools/internal/media"
)

// Registry maps media kinds to ordered backend chains. Registration order
// within a slot is priority order; Resolve picks the first applicable
// backend per slot and assembles slots in their fixed execution order.
type Registry struct {
	mu    sync.RWMutex
	slots map[Slot][]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[Slot][]Backend)}
}

// Register appends b to its slot's candidate list. Earlier registrations
// take priority at resolve time.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := b.Slot()
	r.slots[slot] = append(r.slots[slot], b)
}

// Resolve returns the backend chain for kind: one backend per filled slot,
// in slot execution order. Unknown kinds resolve to an empty chain.
func (r *Registry) Resolve(kind media.Kind) []Backend {
	if kind == media.KindUnknown {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var chain []Backend
	for _, slot := range slotOrder {
		for _, b := range r.slots[slot] {
			if b.AppliesTo(kind) {
				chain = append(chain, b)
				break
			}
		}
	}
	return chain
}

// Backends returns every registered backend in slot order, for listing.
func (r *Registry) Backends() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []Backend
	for _, slot := range slotOrder {
		all = append(all, r.slots[slot]...)
	}
	return all
}
