// Package registry fans deleted-element notifications out to the
// components that hold animation state keyed by element id.
package registry

import "sync"

// CleanupFunc receives the ids of elements removed from the host
// document.
type CleanupFunc func(removed []string)

// Registry is a simple publish/subscribe hub for element removal.
type Registry struct {
	mu   sync.Mutex
	subs []CleanupFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Subscribe registers a cleanup callback.
func (r *Registry) Subscribe(f CleanupFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, f)
}

// Notify delivers the removed ids to every subscriber in registration
// order. Empty notifications are dropped.
func (r *Registry) Notify(removed []string) {
	if len(removed) == 0 {
		return
	}
	r.mu.Lock()
	subs := make([]CleanupFunc, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, f := range subs {
		f(removed)
	}
}
