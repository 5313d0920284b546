package domain

// PrincipleNonMaleficence tags violations raised by the prohibited-pattern
// scan. Custom evaluators may report their own principle identifiers.
const PrincipleNonMaleficence = "non_maleficence"

// EthicalViolation records one action failing one governance principle.
// The offending action is embedded by value so the violation stays
// self-describing after the batch is gone.
type EthicalViolation struct {
	Action      DomainAction `json:"action" yaml:"action"`
	Principle   string       `json:"principle" yaml:"principle"`
	Description string       `json:"description" yaml:"description"`
	Severity    float64      `json:"severity" yaml:"severity"`
}

// EthicalAudit is the verdict over a whole batch. Approved is true exactly
// when Violations is empty; there are no severity waivers.
type EthicalAudit struct {
	Approved       bool               `json:"approved" yaml:"approved"`
	Violations     []EthicalViolation `json:"violations,omitempty" yaml:"violations,omitempty"`
	ActionsAudited int                `json:"actions_audited" yaml:"actions_audited"`
}
