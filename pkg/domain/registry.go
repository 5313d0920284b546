package domain

import "time"

// DomainDescriptor identifies a participating domain node and what it can do.
// The shape mirrors the registration message domain nodes announce themselves
// with: identifier, human name, capability list, free-form metadata.
type DomainDescriptor struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Capabilities []string          `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	RegisteredAt time.Time         `json:"registered_at" yaml:"registered_at"`
}

// Clone returns a deep copy of the descriptor.
func (d DomainDescriptor) Clone() DomainDescriptor {
	clone := d
	if d.Capabilities != nil {
		clone.Capabilities = append([]string(nil), d.Capabilities...)
	}
	clone.Metadata = cloneStringMap(d.Metadata)
	return clone
}

// DomainRegistry tracks registered domains for bookkeeping. Registration is
// deliberately decoupled from coordination: actions from an unregistered
// domain are still audited, checked for conflicts, and sequenced.
type DomainRegistry interface {
	// Register adds or overwrites the descriptor stored under its ID.
	Register(desc DomainDescriptor) error

	// Get returns the descriptor registered under id.
	Get(id string) (DomainDescriptor, bool)

	// List returns a point-in-time snapshot of all descriptors.
	List() []DomainDescriptor

	// Len returns the number of registered domains.
	Len() int
}
