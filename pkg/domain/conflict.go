package domain

// ConflictType distinguishes the two detection rules.
type ConflictType string

const (
	// ConflictIntraDomain marks opposing action types inside one domain.
	ConflictIntraDomain ConflictType = "intra_domain"
	// ConflictCrossDomain marks a cataloged tension between two domains.
	ConflictCrossDomain ConflictType = "cross_domain"
)

// DomainConflict is a detected incompatibility between two distinct actions
// of the same batch. Participants are embedded by value; resolution matches
// them back to the batch by ID.
type DomainConflict struct {
	First    DomainAction `json:"first" yaml:"first"`
	Second   DomainAction `json:"second" yaml:"second"`
	Type     ConflictType `json:"type" yaml:"type"`
	Severity float64      `json:"severity" yaml:"severity"`
}
