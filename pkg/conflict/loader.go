package conflict

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk shape of a rule table.
type ruleFile struct {
	Extend   bool          `yaml:"extend"`
	Antonyms []AntonymRule `yaml:"antonyms"`
	Catalog  []CatalogRule `yaml:"catalog"`
}

// LoadRuleSet reads a YAML rule file. The file replaces the built-in tables
// entirely unless it sets `extend: true`, in which case its entries append
// after the defaults.
func LoadRuleSet(path string) (*RuleSet, error) {
	//nolint:gosec // Rule file path is controlled by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}

	rules := &RuleSet{Antonyms: file.Antonyms, Catalog: file.Catalog}
	if file.Extend {
		base := DefaultRuleSet()
		rules = &RuleSet{
			Antonyms: append(base.Antonyms, file.Antonyms...),
			Catalog:  append(base.Catalog, file.Catalog...),
		}
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule file %s: %w", path, err)
	}

	return rules, nil
}
