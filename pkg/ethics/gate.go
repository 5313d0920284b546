package ethics

import (
	"context"
	"fmt"
	"strings"

	"github.com/concordai/concord/pkg/domain"
)

// ViolationSeverity is the fixed severity reported for every
// prohibited-pattern match.
const ViolationSeverity = 0.8

// Evaluator contributes violations for a single action under the supplied
// coordination context. Implementations must be free of side effects; the
// gate calls them for every action of every batch.
type Evaluator interface {
	Evaluate(ctx context.Context, action domain.DomainAction, cc domain.CoordinationContext) ([]domain.EthicalViolation, error)
}

// Gate runs a batch through a chain of evaluators and renders the verdict.
type Gate struct {
	evaluators []Evaluator
}

// NewGate constructs a gate over the supplied evaluator chain. With no
// evaluators the built-in ProhibitionMatcher is installed.
func NewGate(evaluators ...Evaluator) *Gate {
	if len(evaluators) == 0 {
		evaluators = []Evaluator{ProhibitionMatcher{}}
	}
	return &Gate{evaluators: append([]Evaluator(nil), evaluators...)}
}

// Audit evaluates every action in input order and aggregates all violations.
// Approval is true exactly when no evaluator found anything. The default gate
// never returns an error; the error path exists for custom evaluators.
func (g *Gate) Audit(ctx context.Context, actions []domain.DomainAction, cc domain.CoordinationContext) (domain.EthicalAudit, error) {
	audit := domain.EthicalAudit{ActionsAudited: len(actions)}

	for _, action := range actions {
		for _, evaluator := range g.evaluators {
			violations, err := evaluator.Evaluate(ctx, action, cc)
			if err != nil {
				return domain.EthicalAudit{}, fmt.Errorf("evaluate action %q: %w", action.ID, err)
			}
			audit.Violations = append(audit.Violations, violations...)
		}
	}

	audit.Approved = len(audit.Violations) == 0
	return audit, nil
}

// ProhibitionMatcher flags actions whose type contains a prohibited pattern
// as a substring. Matching is case-sensitive, every matching pattern yields
// its own violation, and an action may accumulate several.
type ProhibitionMatcher struct{}

// Evaluate implements Evaluator.
func (ProhibitionMatcher) Evaluate(_ context.Context, action domain.DomainAction, cc domain.CoordinationContext) ([]domain.EthicalViolation, error) {
	var violations []domain.EthicalViolation

	for _, pattern := range cc.Constraints.EffectivePatterns() {
		if pattern == "" {
			continue
		}
		if strings.Contains(action.Type, pattern) {
			violations = append(violations, domain.EthicalViolation{
				Action:      action,
				Principle:   domain.PrincipleNonMaleficence,
				Description: fmt.Sprintf("action type %q matches prohibited pattern %q", action.Type, pattern),
				Severity:    ViolationSeverity,
			})
		}
	}

	return violations, nil
}
