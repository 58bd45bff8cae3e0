package entity

import "sort"

// Registry is the arena of entities addressed by Handle.
// Handles are issued in increasing order and never reused.
type Registry struct {
	next     Handle
	entities map[Handle]*Entity
	order    []Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[Handle]*Entity),
	}
}

// Add assigns a fresh handle to e and stores it.
func (r *Registry) Add(e *Entity) Handle {
	r.next++
	e.Handle = r.next
	r.entities[e.Handle] = e
	r.order = append(r.order, e.Handle)
	return e.Handle
}

// Get resolves a handle. Stale or unknown handles return false.
func (r *Registry) Get(h Handle) (*Entity, bool) {
	e, ok := r.entities[h]
	return e, ok
}

// Remove forgets an entity. Outstanding handles to it simply stop resolving.
func (r *Registry) Remove(h Handle) {
	if _, ok := r.entities[h]; !ok {
		return
	}
	delete(r.entities, h)
	i := sort.Search(len(r.order), func(i int) bool { return r.order[i] >= h })
	if i < len(r.order) && r.order[i] == h {
		r.order = append(r.order[:i], r.order[i+1:]...)
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Each visits live entities of the given kind in handle order.
// KindUnknown visits everything.
func (r *Registry) Each(kind Kind, fn func(*Entity)) {
	for _, h := range r.order {
		e := r.entities[h]
		if kind == KindUnknown || e.Kind == kind {
			fn(e)
		}
	}
}

// Count returns how many live entities have the given kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	r.Each(kind, func(*Entity) { n++ })
	return n
}
