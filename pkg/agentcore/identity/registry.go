package identity

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAlreadyRegistered is returned when registering an agent ID that is
	// already present.
	ErrAlreadyRegistered = errors.New("identity already registered")

	// ErrNotRegistered is returned when the agent ID is unknown.
	ErrNotRegistered = errors.New("identity not registered")
)

// Registry is a thread-safe in-memory store of agent identities. Any
// component can resolve an agent ID to its full identity without going back
// to the source. List and the finders return identities in registration
// order.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Identity
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Identity)}
}

// Register adds id to the registry. Registering the same agent ID twice is
// an error; call Unregister first to replace an identity.
func (r *Registry) Register(id *Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id.AgentID]; exists {
		return fmt.Errorf("agent %q: %w", id.AgentID, ErrAlreadyRegistered)
	}
	r.byID[id.AgentID] = id
	r.order = append(r.order, id.AgentID)
	return nil
}

// Unregister removes the identity for agentID.
func (r *Registry) Unregister(agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[agentID]; !exists {
		return fmt.Errorf("agent %q: %w", agentID, ErrNotRegistered)
	}
	delete(r.byID, agentID)
	for i, id := range r.order {
		if id == agentID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get resolves agentID to its identity.
func (r *Registry) Get(agentID string) (*Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, exists := r.byID[agentID]
	if !exists {
		return nil, fmt.Errorf("agent %q: %w", agentID, ErrNotRegistered)
	}
	return id, nil
}

// Contains reports whether agentID is registered.
func (r *Registry) Contains(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byID[agentID]
	return exists
}

// List returns a snapshot of all registered identities.
func (r *Registry) List() []*Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Identity, 0, len(r.order))
	for _, agentID := range r.order {
		out = append(out, r.byID[agentID])
	}
	return out
}

// FindByName returns all identities with the given name.
func (r *Registry) FindByName(name string) []*Identity {
	return r.find(func(id *Identity) bool { return id.Name == name })
}

// FindByFramework returns all identities using the given framework.
func (r *Registry) FindByFramework(framework string) []*Identity {
	return r.find(func(id *Identity) bool { return id.Framework == framework })
}

func (r *Registry) find(match func(*Identity) bool) []*Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Identity
	for _, agentID := range r.order {
		if id := r.byID[agentID]; match(id) {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
