package conflict

import (
	"strings"

	"github.com/concordai/concord/pkg/domain"
)

const (
	baseSeverity   = 0.5
	immediateBoost = 0.3
)

// Detector scans batches for pairwise incompatibilities using a RuleSet.
// Detectors are cheap to construct; callers that hot-reload rules build a
// fresh one per snapshot.
type Detector struct {
	rules *RuleSet
}

// NewDetector builds a detector over the supplied rules. A nil rule set
// selects DefaultRuleSet.
func NewDetector(rules *RuleSet) *Detector {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Detector{rules: rules}
}

// Detect scans every unordered pair (i < j) in input order, so the conflict
// list is reproducible for identical batches. Same-domain pairs are tested
// against the antonym table, cross-domain pairs against the catalog; the two
// branches are disjoint, so a pair yields at most one conflict.
func (d *Detector) Detect(actions []domain.DomainAction) []domain.DomainConflict {
	var conflicts []domain.DomainConflict

	for i := 0; i < len(actions); i++ {
		for j := i + 1; j < len(actions); j++ {
			first, second := actions[i], actions[j]

			if first.Domain == second.Domain {
				if d.rules.antonymMatch(first.Type, second.Type) {
					conflicts = append(conflicts, newConflict(first, second, domain.ConflictIntraDomain))
				}
				continue
			}

			if d.rules.catalogMatch(first, second) {
				conflicts = append(conflicts, newConflict(first, second, domain.ConflictCrossDomain))
			}
		}
	}

	return conflicts
}

func newConflict(first, second domain.DomainAction, kind domain.ConflictType) domain.DomainConflict {
	severity := baseSeverity
	if first.Priority == domain.PriorityImmediate || second.Priority == domain.PriorityImmediate {
		severity += immediateBoost
	}

	return domain.DomainConflict{
		First:    first.Clone(),
		Second:   second.Clone(),
		Type:     kind,
		Severity: clampUnit(severity),
	}
}

func (rs *RuleSet) antonymMatch(a, b string) bool {
	for _, rule := range rs.Antonyms {
		if strings.Contains(a, rule.First) && strings.Contains(b, rule.Second) {
			return true
		}
		if strings.Contains(a, rule.Second) && strings.Contains(b, rule.First) {
			return true
		}
	}
	return false
}

func (rs *RuleSet) catalogMatch(first, second domain.DomainAction) bool {
	for _, rule := range rs.Catalog {
		if rule.Left.Domain == first.Domain && rule.Left.Type == first.Type &&
			rule.Right.Domain == second.Domain && rule.Right.Type == second.Type {
			return true
		}
		if rule.Left.Domain == second.Domain && rule.Left.Type == second.Type &&
			rule.Right.Domain == first.Domain && rule.Right.Type == first.Type {
			return true
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
