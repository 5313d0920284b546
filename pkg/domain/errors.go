package domain

import (
	"errors"
	"fmt"
)

// Severity grades faults for embedding systems: critical aborts the cycle,
// high falls back to safe defaults, medium degrades gracefully, low is
// log-and-continue.
type Severity string

const (
	// SeverityLow marks faults that are logged and otherwise ignored.
	SeverityLow Severity = "low"
	// SeverityMedium marks faults the caller can degrade around.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks faults that force a fallback to safe defaults.
	SeverityHigh Severity = "high"
	// SeverityCritical marks faults that abort the coordination cycle.
	SeverityCritical Severity = "critical"
)

// Common domain errors
var (
	ErrEmptyDomainID = errors.New("domain descriptor id is empty")
	ErrBatchTooLarge = errors.New("action batch exceeds admission limit")
)

// PolicyViolationError aborts a coordination cycle whose batch failed the
// ethical audit. It carries the complete audit so callers can itemize every
// violation rather than just the first one found.
type PolicyViolationError struct {
	Audit EthicalAudit
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("ethical policy violated: %d violation(s) across %d audited action(s)",
		len(e.Audit.Violations), e.Audit.ActionsAudited)
}

// CoordinationError wraps errors with severity and machine-readable context.
type CoordinationError struct {
	Err      error
	Code     string
	Severity Severity
	Details  map[string]any
}

func (e *CoordinationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Err.Error()
}

func (e *CoordinationError) Unwrap() error {
	return e.Err
}

// SeverityOf classifies an error on the Severity scale. Policy violations are
// always critical; tagged CoordinationErrors report their own severity;
// everything else defaults to medium.
func SeverityOf(err error) Severity {
	if err == nil {
		return ""
	}

	var policy *PolicyViolationError
	if errors.As(err, &policy) {
		return SeverityCritical
	}

	var coord *CoordinationError
	if errors.As(err, &coord) && coord.Severity != "" {
		return coord.Severity
	}

	return SeverityMedium
}
