// Package storage provides in-memory persistence for coordination metadata.
package storage

import (
	"sort"
	"sync"

	"github.com/concordai/concord/pkg/domain"
)

// MemoryDomainRegistry is an in-memory implementation of
// domain.DomainRegistry. Registration is advisory bookkeeping: actions are
// coordinated whether or not their domain was registered first.
type MemoryDomainRegistry struct {
	mu      sync.RWMutex
	domains map[string]domain.DomainDescriptor
}

// NewMemoryDomainRegistry creates an empty MemoryDomainRegistry.
func NewMemoryDomainRegistry() *MemoryDomainRegistry {
	return &MemoryDomainRegistry{
		domains: make(map[string]domain.DomainDescriptor),
	}
}

// Register stores the descriptor, replacing any previous registration with
// the same ID. The descriptor is copied in, so later caller mutations do not
// leak into the registry.
func (r *MemoryDomainRegistry) Register(desc domain.DomainDescriptor) error {
	if desc.ID == "" {
		return domain.ErrEmptyDomainID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.domains[desc.ID] = desc.Clone()
	return nil
}

// Get returns a detached copy of the descriptor registered under id.
func (r *MemoryDomainRegistry) Get(id string) (domain.DomainDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.domains[id]
	if !ok {
		return domain.DomainDescriptor{}, false
	}
	return desc.Clone(), true
}

// List returns detached copies of all registrations, sorted by ID.
func (r *MemoryDomainRegistry) List() []domain.DomainDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DomainDescriptor, 0, len(r.domains))
	for _, desc := range r.domains {
		out = append(out, desc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of registered domains.
func (r *MemoryDomainRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.domains)
}
