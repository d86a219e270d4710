package domain

import "sync"

// ActiveRef identifies the currently selected endpoint of a kind: its URL
// and its index into that kind's endpoint list. The two fields are always
// swapped together so readers never observe a mismatched pair.
type ActiveRef struct {
	URL   string
	Index int
}

// Empty reports whether the ref holds no selection.
func (a ActiveRef) Empty() bool { return a.Index < 0 }

var emptyRef = ActiveRef{Index: -1}

// Registry holds, per NodeKind, the fixed-order list of endpoints
// populated at bootstrap and the currently active selection. Endpoint list
// order never changes after bootstrap; only each Endpoint's own mutable
// fields, and the active selection, change afterward.
type Registry struct {
	mu        sync.RWMutex
	endpoints [2][]*Endpoint
	active    [2]ActiveRef
}

// NewRegistry returns an empty registry, ready for Bootstrap to populate.
func NewRegistry() *Registry {
	r := &Registry{}
	r.active[NodeKindNormal] = emptyRef
	r.active[NodeKindArchive] = emptyRef
	return r
}

// Seed appends endpoints to kind's list. Only Bootstrap should call this,
// and only before any Scheduler/Dispatcher activity begins.
func (r *Registry) Seed(kind NodeKind, endpoints ...*Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[kind] = append(r.endpoints[kind], endpoints...)
}

// Endpoints returns the fixed-order endpoint slice for kind. The slice
// itself is never mutated after bootstrap, so it is safe to range over
// without holding the registry lock; each *Endpoint remains individually
// synchronized.
func (r *Registry) Endpoints(kind NodeKind) []*Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.endpoints[kind]
}

// Active returns the current ActiveRef for kind (Empty() if unset).
func (r *Registry) Active(kind NodeKind) ActiveRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[kind]
}

// ActiveEndpoint resolves the current active ref for kind to its Endpoint,
// or nil if unset.
func (r *Registry) ActiveEndpoint(kind NodeKind) *Endpoint {
	r.mu.RLock()
	ref := r.active[kind]
	endpoints := r.endpoints[kind]
	r.mu.RUnlock()
	if ref.Empty() || ref.Index >= len(endpoints) {
		return nil
	}
	return endpoints[ref.Index]
}

// SetActive atomically swaps kind's active selection to the endpoint at
// index (which must hold url). Passing index -1 clears the selection.
func (r *Registry) SetActive(kind NodeKind, url string, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 {
		r.active[kind] = emptyRef
		return
	}
	r.active[kind] = ActiveRef{URL: url, Index: index}
}

// ClearActive unsets kind's active selection.
func (r *Registry) ClearActive(kind NodeKind) {
	r.SetActive(kind, "", -1)
}

// Empty reports whether kind's endpoint list has zero entries.
func (r *Registry) Empty(kind NodeKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints[kind]) == 0
}

// HasAnyActive reports whether either kind currently has an active
// selection.
func (r *Registry) HasAnyActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.active[NodeKindNormal].Empty() || !r.active[NodeKindArchive].Empty()
}
