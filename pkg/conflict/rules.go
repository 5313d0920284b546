package conflict

import (
	"errors"
	"fmt"
	"strings"
)

// AntonymRule pairs two keywords whose co-occurrence in same-domain action
// types signals opposing intent. Matching is substring-based, in either
// assignment order.
type AntonymRule struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// ActionRef names one side of a cataloged cross-domain tension.
type ActionRef struct {
	Domain string `json:"domain" yaml:"domain"`
	Type   string `json:"type" yaml:"type"`
}

// CatalogRule declares a known antagonistic combination of two exact
// (domain, type) pairs. Both orientations match.
type CatalogRule struct {
	Left  ActionRef `json:"left" yaml:"left"`
	Right ActionRef `json:"right" yaml:"right"`
}

// RuleSet is the closed, declarative knowledge the detector runs on. The
// tables are data: they evolve through rule files, not detector code.
type RuleSet struct {
	Antonyms []AntonymRule `json:"antonyms" yaml:"antonyms"`
	Catalog  []CatalogRule `json:"catalog" yaml:"catalog"`
}

// DefaultRuleSet returns the built-in tables.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Antonyms: []AntonymRule{
			{First: "increase", Second: "decrease"},
			{First: "expand", Second: "reduce"},
			{First: "accelerate", Second: "decelerate"},
		},
		Catalog: []CatalogRule{
			{
				Left:  ActionRef{Domain: "climate", Type: "reduce_emissions"},
				Right: ActionRef{Domain: "economy", Type: "increase_production"},
			},
			{
				Left:  ActionRef{Domain: "climate", Type: "protect_forest"},
				Right: ActionRef{Domain: "economy", Type: "expand_agriculture"},
			},
			{
				Left:  ActionRef{Domain: "energy", Type: "retire_fossil_plants"},
				Right: ActionRef{Domain: "economy", Type: "expand_manufacturing"},
			},
			{
				Left:  ActionRef{Domain: "water", Type: "restrict_irrigation"},
				Right: ActionRef{Domain: "agriculture", Type: "expand_irrigation"},
			},
			{
				Left:  ActionRef{Domain: "health", Type: "restrict_emissions"},
				Right: ActionRef{Domain: "energy", Type: "increase_coal_output"},
			},
		},
	}
}

// Validate rejects rule tables that could never match or that match trivially.
func (rs *RuleSet) Validate() error {
	for i, rule := range rs.Antonyms {
		if strings.TrimSpace(rule.First) == "" || strings.TrimSpace(rule.Second) == "" {
			return fmt.Errorf("antonym rule %d: keywords must be non-empty", i)
		}
		if rule.First == rule.Second {
			return fmt.Errorf("antonym rule %d: keywords must differ", i)
		}
	}

	for i, rule := range rs.Catalog {
		if err := rule.Left.validate(); err != nil {
			return fmt.Errorf("catalog rule %d left side: %w", i, err)
		}
		if err := rule.Right.validate(); err != nil {
			return fmt.Errorf("catalog rule %d right side: %w", i, err)
		}
		if rule.Left.Domain == rule.Right.Domain {
			return fmt.Errorf("catalog rule %d: entries must span two domains", i)
		}
	}

	return nil
}

func (r ActionRef) validate() error {
	if strings.TrimSpace(r.Domain) == "" {
		return errors.New("domain must be non-empty")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type must be non-empty")
	}
	return nil
}

// Clone returns a deep copy of the rule set.
func (rs *RuleSet) Clone() *RuleSet {
	if rs == nil {
		return nil
	}
	clone := &RuleSet{}
	if rs.Antonyms != nil {
		clone.Antonyms = append([]AntonymRule(nil), rs.Antonyms...)
	}
	if rs.Catalog != nil {
		clone.Catalog = append([]CatalogRule(nil), rs.Catalog...)
	}
	return clone
}
