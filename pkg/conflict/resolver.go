package conflict

import "github.com/concordai/concord/pkg/domain"

// Resolve drops every action implicated in at least one conflict, matched by
// action ID. Both sides of every conflicting pair are removed, never just
// one; arbitrating a winner is out of scope. Survivors keep their original
// relative order, and the result is always a subset of the input.
func Resolve(actions []domain.DomainAction, conflicts []domain.DomainConflict) []domain.DomainAction {
	if len(conflicts) == 0 {
		return domain.CloneActions(actions)
	}

	conflicted := make(map[string]struct{}, len(conflicts)*2)
	for _, c := range conflicts {
		conflicted[c.First.ID] = struct{}{}
		conflicted[c.Second.ID] = struct{}{}
	}

	survivors := make([]domain.DomainAction, 0, len(actions))
	for _, action := range actions {
		if _, dropped := conflicted[action.ID]; dropped {
			continue
		}
		survivors = append(survivors, action.Clone())
	}

	return survivors
}
