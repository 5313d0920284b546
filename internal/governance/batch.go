package governance

import (
	"github.com/concordai/concord/pkg/domain"
)

// DefaultMaxActions caps batch sizes when callers provide no explicit limit.
const DefaultMaxActions = 256

// BatchPolicy enforces an upper bound on coordination batch sizes.
type BatchPolicy struct {
	MaxActions int
}

// DefaultBatchPolicy returns a policy with the built-in batch cap.
func DefaultBatchPolicy() BatchPolicy {
	return BatchPolicy{MaxActions: DefaultMaxActions}
}

// Admit rejects batches larger than the configured limit. A MaxActions of
// zero or below disables the check entirely.
func (p BatchPolicy) Admit(size int) error {
	if p.MaxActions <= 0 || size <= p.MaxActions {
		return nil
	}

	return &domain.CoordinationError{
		Err:      domain.ErrBatchTooLarge,
		Code:     "BATCH_LIMIT",
		Severity: domain.SeverityMedium,
		Details: map[string]any{
			"batch_size":  size,
			"max_actions": p.MaxActions,
		},
	}
}
