package domain

import "time"

// DefaultProhibitedPatterns returns the built-in deny list applied when a
// coordination context does not supply constraints of its own.
func DefaultProhibitedPatterns() []string {
	return []string{"exploitative", "harmful", "discriminatory", "unsustainable"}
}

// EthicalConstraints hold the governance inputs for a batch audit.
//
// A nil ProhibitedPatterns slice selects DefaultProhibitedPatterns. An empty
// non-nil slice is honored as-is and prohibits nothing.
type EthicalConstraints struct {
	ProhibitedPatterns []string          `json:"prohibited_patterns" yaml:"prohibited_patterns"`
	Requirements       map[string]string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// EffectivePatterns resolves the nil-selects-default rule.
func (c EthicalConstraints) EffectivePatterns() []string {
	if c.ProhibitedPatterns == nil {
		return DefaultProhibitedPatterns()
	}
	return c.ProhibitedPatterns
}

// Clone returns a deep copy of the constraints. An empty non-nil pattern
// slice stays empty and non-nil so the default selection rule is unaffected.
func (c EthicalConstraints) Clone() EthicalConstraints {
	clone := c
	if c.ProhibitedPatterns != nil {
		clone.ProhibitedPatterns = make([]string, len(c.ProhibitedPatterns))
		copy(clone.ProhibitedPatterns, c.ProhibitedPatterns)
	}
	clone.Requirements = cloneStringMap(c.Requirements)
	return clone
}

// CoordinationContext carries the shared situational state for one
// coordination cycle. The engine treats it as read-only and echoes the
// normalized value back on the result.
type CoordinationContext struct {
	Environment map[string]any     `json:"environment,omitempty" yaml:"environment,omitempty"`
	Constraints EthicalConstraints `json:"constraints" yaml:"constraints"`
	Timestamp   time.Time          `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Clone returns a deep copy of the context. Environment entries are copied
// one level deep; nested mutable values remain shared.
func (c CoordinationContext) Clone() CoordinationContext {
	clone := c
	clone.Environment = cloneAnyMap(c.Environment)
	clone.Constraints = c.Constraints.Clone()
	return clone
}

func cloneAnyMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	clone := make(map[string]any, len(input))
	for k, v := range input {
		clone[k] = v
	}
	return clone
}
