package osync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficlit/vaultmigrate/rules"
)

const mappingYAML = `
prefixes:
  crm: http://www.cidoc-crm.org/cidoc-crm/
  rso: http://www.researchspace.org/ontology/
root:
  subject_var: subject
  class: crm:E22_Man-Made_Object
  order_by: ?subject
fields:
  - select:
      expr: SAMPLE(?t)
      as: title
    where:
      - "?subject crm:P102_has_title ?t ."
    required: true
    to:
      property: dcterms:title
  - select:
      expr: "?subject"
      as: subject
    to:
      property: dcterms:identifier
  - select:
      expr: GROUP_CONCAT(DISTINCT ?f; separator="||")
      as: files
    where:
      - "?subject rso:PX_has_file_name ?f ."
    to:
      special: o:media
`

func loadTestMapping(t *testing.T) *rules.Mapping {
	t.Helper()
	m, err := rules.ParseMapping([]byte(mappingYAML))
	require.NoError(t, err)
	return m
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(loadTestMapping(t))

	// Prefixes sorted by name, crm before rso.
	assert.Regexp(t, `(?s)PREFIX crm: <http://www\.cidoc-crm\.org/cidoc-crm/>\nPREFIX rso: <http://www\.researchspace\.org/ontology/>`, q)

	assert.Contains(t, q, "SELECT ?subject (SAMPLE(?t) AS ?title) ?subject (GROUP_CONCAT(DISTINCT ?f; separator=\"||\") AS ?files)")
	assert.Contains(t, q, "?subject a crm:E22_Man-Made_Object .")
	assert.Contains(t, q, "  ?subject crm:P102_has_title ?t .")
	assert.Contains(t, q, "OPTIONAL {\n    ?subject rso:PX_has_file_name ?f .\n  }")
	assert.Contains(t, q, "GROUP BY ?subject")
	assert.Contains(t, q, "ORDER BY ?subject")

	// The required pattern must not also appear inside an OPTIONAL block.
	assert.NotContains(t, q, "OPTIONAL {\n    ?subject crm:P102_has_title")
}

func TestBuildQuery_DefaultOrderBy(t *testing.T) {
	m := loadTestMapping(t)
	m.Root.OrderBy = ""

	q := BuildQuery(m)
	assert.Contains(t, q, "ORDER BY ?subject")
}

func TestSelectExpr_BareVariable(t *testing.T) {
	got := selectExpr(rules.FieldSelect{Expr: "?subject", As: "subject"})
	assert.Equal(t, "?subject", got)

	got = selectExpr(rules.FieldSelect{Expr: "SAMPLE(?x)", As: "y"})
	assert.Equal(t, "(SAMPLE(?x) AS ?y)", got)
}

func TestMediaCache(t *testing.T) {
	c := NewMediaCache()
	assert.False(t, c.Seen(7))

	c.Mark(7)
	assert.True(t, c.Seen(7))
	assert.False(t, c.Seen(8))
	assert.Equal(t, 1, c.Len())

	c.Mark(7)
	assert.Equal(t, 1, c.Len())
}
