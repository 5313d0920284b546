package domain

import "time"

// HarmonyThreshold is the minimum harmony score for a successful outcome.
const HarmonyThreshold = 0.7

// CoordinationResult is the complete outcome of one coordination cycle.
type CoordinationResult struct {
	Sequenced   []DomainAction      `json:"sequenced" yaml:"sequenced"`
	Harmony     float64             `json:"harmony" yaml:"harmony"`
	Audit       EthicalAudit        `json:"audit" yaml:"audit"`
	Context     CoordinationContext `json:"context" yaml:"context"`
	CompletedAt time.Time           `json:"completed_at" yaml:"completed_at"`
}

// Success reports whether the cycle met the harmony threshold and passed the
// ethical audit. It is derived state, never stored.
func (r CoordinationResult) Success() bool {
	return r.Harmony >= HarmonyThreshold && r.Audit.Approved
}
