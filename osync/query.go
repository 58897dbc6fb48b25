// Package osync drives the triplestore→Omeka synchronization: it renders a
// SELECT query from the field-mapping spec, walks the solutions, and upserts
// one item per row, attaching converted media where mapped.
package osync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ficlit/vaultmigrate/rules"
)

// BuildQuery renders the SPARQL SELECT query described by a field-mapping
// spec. Prefixes are emitted in sorted order so the query text is stable;
// required field patterns are inlined while optional ones are wrapped in
// OPTIONAL blocks, one per field.
func BuildQuery(m *rules.Mapping) string {
	var sb strings.Builder

	names := make([]string, 0, len(m.Prefixes))
	for name := range m.Prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "PREFIX %s: <%s>\n", name, m.Prefixes[name])
	}
	if len(names) > 0 {
		sb.WriteString("\n")
	}

	subject := "?" + m.Root.SubjectVar

	sb.WriteString("SELECT " + subject)
	for _, f := range m.Fields {
		sb.WriteString(" " + selectExpr(f.Select))
	}
	sb.WriteString("\nWHERE {\n")
	fmt.Fprintf(&sb, "  %s a %s .\n", subject, m.Root.Class)

	for _, f := range m.Fields {
		if f.Required {
			for _, pattern := range f.Where {
				fmt.Fprintf(&sb, "  %s\n", pattern)
			}
		}
	}
	for _, f := range m.Fields {
		if f.Required || len(f.Where) == 0 {
			continue
		}
		sb.WriteString("  OPTIONAL {\n")
		for _, pattern := range f.Where {
			fmt.Fprintf(&sb, "    %s\n", pattern)
		}
		sb.WriteString("  }\n")
	}

	sb.WriteString("}\n")
	fmt.Fprintf(&sb, "GROUP BY %s\n", subject)

	orderBy := m.Root.OrderBy
	if orderBy == "" {
		orderBy = subject
	}
	fmt.Fprintf(&sb, "ORDER BY %s\n", orderBy)

	return sb.String()
}

// selectExpr renders one SELECT clause entry: a bare variable when the
// expression is already the aliased variable, an aliased aggregate
// otherwise.
func selectExpr(s rules.FieldSelect) string {
	if s.Expr == "?"+s.As {
		return s.Expr
	}
	return fmt.Sprintf("(%s AS ?%s)", s.Expr, s.As)
}
