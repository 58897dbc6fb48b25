// Package rules loads the declarative rule documents that drive both
// migration phases: the predicate→template transformation catalogue used by
// the harvester and the field-mapping spec used by the sync driver.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one normalized transformation rule. Among rules sharing a
// predicate, a rule with a non-nil ObjectEquals is more specific than one
// without; specificity determines selection, not declaration order.
type Rule struct {
	ID           string
	Predicate    string
	ObjectEquals *string
	Template     Template
}

// ruleDoc mirrors the YAML shape of the catalogue file.
type ruleDoc struct {
	Rules []struct {
		ID           string  `yaml:"id"`
		Predicate    string  `yaml:"source_predicate"`
		ObjectEquals *string `yaml:"object_equals"`
		Template     string  `yaml:"target_pattern"`
	} `yaml:"rules"`
}

// predicateRules groups the rules for a single source predicate into the
// two specificity tiers.
type predicateRules struct {
	// exact maps an object literal/IRI string to the rules guarded on it.
	exact map[string][]Rule
	// wildcard holds the rules with no object guard.
	wildcard []Rule
}

// Catalogue is the loaded transformation catalogue, indexed once at load
// time as predicate → {object-keyed rules, wildcard rules} so per-triple
// matching costs O(matches) instead of a scan over the full rule list.
type Catalogue struct {
	byPredicate map[string]*predicateRules
	count       int
}

// LoadCatalogue reads and indexes a transformation catalogue from path.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(path, fmt.Errorf("read: %w", err))
	}

	cat, err := ParseCatalogue(data)
	if err != nil {
		return nil, NewConfigError(path, err)
	}
	return cat, nil
}

// ParseCatalogue parses and indexes a catalogue document.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var doc ruleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc.Rules == nil {
		return nil, fmt.Errorf("document has no rules collection")
	}

	cat := &Catalogue{byPredicate: make(map[string]*predicateRules)}
	for i, r := range doc.Rules {
		if r.Predicate == "" {
			return nil, fmt.Errorf("rule %d (%s): missing source_predicate", i, r.ID)
		}
		if r.Template == "" {
			return nil, fmt.Errorf("rule %d (%s): missing target_pattern", i, r.ID)
		}

		rule := Rule{
			ID:           r.ID,
			Predicate:    r.Predicate,
			ObjectEquals: r.ObjectEquals,
			Template:     ParseTemplate(r.Template),
		}

		pr := cat.byPredicate[rule.Predicate]
		if pr == nil {
			pr = &predicateRules{exact: make(map[string][]Rule)}
			cat.byPredicate[rule.Predicate] = pr
		}
		if rule.ObjectEquals != nil {
			pr.exact[*rule.ObjectEquals] = append(pr.exact[*rule.ObjectEquals], rule)
		} else {
			pr.wildcard = append(pr.wildcard, rule)
		}
		cat.count++
	}

	return cat, nil
}

// Len returns the number of loaded rules.
func (c *Catalogue) Len() int {
	return c.count
}

// Match returns the rules that apply to a (predicate, object) pair.
// Object-guarded matches win over wildcard rules for the same predicate;
// within the winning tier every matching rule fires, in declaration order.
func (c *Catalogue) Match(predicate, object string) []Rule {
	pr := c.byPredicate[predicate]
	if pr == nil {
		return nil
	}
	if exact := pr.exact[object]; len(exact) > 0 {
		return exact
	}
	return pr.wildcard
}
