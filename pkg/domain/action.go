package domain

import "time"

// Priority places an action into one of three urgency tiers. The tier drives
// sequencing only; it never changes audit or conflict detection semantics,
// apart from the severity boost applied to conflicts touching immediate work.
type Priority string

const (
	// PriorityImmediate schedules an action ahead of all other tiers.
	PriorityImmediate Priority = "immediate"
	// PriorityStrategic is the default tier for planned work.
	PriorityStrategic Priority = "strategic"
	// PriorityLongTerm schedules an action after all other tiers.
	PriorityLongTerm Priority = "long_term"
)

// Known reports whether p is one of the three recognized tiers.
func (p Priority) Known() bool {
	switch p {
	case PriorityImmediate, PriorityStrategic, PriorityLongTerm:
		return true
	default:
		return false
	}
}

// Normalize maps the zero value and unrecognized tiers to PriorityStrategic.
func (p Priority) Normalize() Priority {
	if p.Known() {
		return p
	}
	return PriorityStrategic
}

// DomainAction is a single proposed intervention submitted by a domain node.
// ID must be unique within a batch; producers that leave it empty get a
// deterministic index-derived ID assigned during batch normalization.
type DomainAction struct {
	ID        string            `json:"id" yaml:"id"`
	Domain    string            `json:"domain" yaml:"domain"`
	Type      string            `json:"type" yaml:"type"`
	Params    map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Priority  Priority          `json:"priority" yaml:"priority"`
	CreatedAt time.Time         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Clone returns a deep copy of the action to avoid shared mutable state.
func (a DomainAction) Clone() DomainAction {
	clone := a
	clone.Params = cloneStringMap(a.Params)
	return clone
}

// CloneActions returns a deep copy of a batch, preserving order.
func CloneActions(actions []DomainAction) []DomainAction {
	if actions == nil {
		return nil
	}
	out := make([]DomainAction, len(actions))
	for i, a := range actions {
		out[i] = a.Clone()
	}
	return out
}

func cloneStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	clone := make(map[string]string, len(input))
	for k, v := range input {
		clone[k] = v
	}
	return clone
}
