package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldSelect is the SELECT clause contribution of one mapped field.
type FieldSelect struct {
	Expr string `yaml:"expr"`
	As   string `yaml:"as"`
}

// FieldTarget names where a bound value lands on the target item: either a
// Dublin Core property term or a special marker (currently "o:media").
type FieldTarget struct {
	Property string `yaml:"property"`
	Special  string `yaml:"special"`
}

// Field is one mapped field of the query dialect.
type Field struct {
	Select   FieldSelect `yaml:"select"`
	Where    []string    `yaml:"where"`
	Required bool        `yaml:"required"`
	To       FieldTarget `yaml:"to"`
}

// MappingRoot describes the query root: the subject variable, its class
// constraint, and the result ordering.
type MappingRoot struct {
	SubjectVar string `yaml:"subject_var"`
	Class      string `yaml:"class"`
	OrderBy    string `yaml:"order_by"`
}

// Mapping is the field-mapping spec driving the sync driver: it produces
// both the SELECT query and the per-row binding→property translation.
type Mapping struct {
	Prefixes map[string]string `yaml:"prefixes"`
	Root     MappingRoot       `yaml:"root"`
	Fields   []Field           `yaml:"fields"`
}

// LoadMapping reads a field-mapping spec from path.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(path, fmt.Errorf("read: %w", err))
	}

	m, err := ParseMapping(data)
	if err != nil {
		return nil, NewConfigError(path, err)
	}
	return m, nil
}

// ParseMapping parses and validates a field-mapping spec document.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if m.Root.SubjectVar == "" {
		return nil, fmt.Errorf("root.subject_var is required")
	}
	if m.Root.Class == "" {
		return nil, fmt.Errorf("root.class is required")
	}
	for i, f := range m.Fields {
		if f.Select.Expr == "" || f.Select.As == "" {
			return nil, fmt.Errorf("field %d: select.expr and select.as are required", i)
		}
	}
	return &m, nil
}
