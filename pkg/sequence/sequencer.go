// Package sequence orders resolved actions by urgency tier.
package sequence

import "github.com/concordai/concord/pkg/domain"

// Sequence stably partitions actions into immediate, strategic, and long-term
// tiers, in that execution order. Relative order within a tier is preserved
// from the input; this is a partition, not a sort, so equal-tier actions never
// reorder. Unrecognized priorities schedule with the strategic tier.
//
// The returned slice is newly allocated but shares element payloads with the
// input.
func Sequence(actions []domain.DomainAction) []domain.DomainAction {
	immediate := make([]domain.DomainAction, 0, len(actions))
	strategic := make([]domain.DomainAction, 0, len(actions))
	longTerm := make([]domain.DomainAction, 0, len(actions))

	for _, action := range actions {
		switch action.Priority {
		case domain.PriorityImmediate:
			immediate = append(immediate, action)
		case domain.PriorityLongTerm:
			longTerm = append(longTerm, action)
		default:
			strategic = append(strategic, action)
		}
	}

	sequenced := make([]domain.DomainAction, 0, len(actions))
	sequenced = append(sequenced, immediate...)
	sequenced = append(sequenced, strategic...)
	sequenced = append(sequenced, longTerm...)
	return sequenced
}
