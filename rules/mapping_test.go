package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMapping = `
prefixes:
  crm: http://www.cidoc-crm.org/cidoc-crm/
  rdfs: http://www.w3.org/2000/01/rdf-schema#
root:
  subject_var: "?s"
  class: crm:E22_Man-Made_Object
  order_by: "?s"
fields:
  - select:
      expr: SAMPLE(?title)
      as: "?title_out"
    where:
      - "?s rdfs:label ?title ."
    required: true
    to:
      property: dcterms:title
  - select:
      expr: GROUP_CONCAT(?file; separator="||")
      as: "?files"
    where:
      - "?s crm:P1_is_identified_by ?file ."
    to:
      special: o:media
`

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]byte(sampleMapping))
	require.NoError(t, err)

	assert.Equal(t, "?s", m.Root.SubjectVar)
	assert.Equal(t, "crm:E22_Man-Made_Object", m.Root.Class)
	require.Len(t, m.Fields, 2)
	assert.True(t, m.Fields[0].Required)
	assert.Equal(t, "dcterms:title", m.Fields[0].To.Property)
	assert.Equal(t, "o:media", m.Fields[1].To.Special)
	assert.False(t, m.Fields[1].Required)
}

func TestParseMapping_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing subject var", doc: "root:\n  class: crm:E22\n"},
		{name: "missing class", doc: "root:\n  subject_var: \"?s\"\n"},
		{
			name: "field without alias",
			doc:  "root:\n  subject_var: \"?s\"\n  class: crm:E22\nfields:\n  - select:\n      expr: SAMPLE(?x)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
