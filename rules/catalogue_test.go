package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalogue = `
rules:
  - id: r1
    source_predicate: http://example.org/p
    target_pattern: "?s ex:mapped ?o ."
  - id: r2
    source_predicate: http://example.org/p
    object_equals: "X"
    target_pattern: "?s ex:exact ?o ."
  - id: r3
    source_predicate: http://example.org/p
    object_equals: "X"
    target_pattern: "?s ex:also_exact ?o ."
  - id: r4
    source_predicate: http://example.org/q
    target_pattern: "?s a crm:E22_Man-Made_Object ."
`

func TestParseCatalogue(t *testing.T) {
	cat, err := ParseCatalogue([]byte(sampleCatalogue))
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
}

func TestParseCatalogue_MissingRulesCollection(t *testing.T) {
	_, err := ParseCatalogue([]byte("something_else: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rules collection")
}

func TestParseCatalogue_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing predicate",
			doc:  "rules:\n  - id: r1\n    target_pattern: \"?s a ?o .\"\n",
		},
		{
			name: "missing template",
			doc:  "rules:\n  - id: r1\n    source_predicate: http://example.org/p\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogue([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCatalogue_Match_ExactBeatsWildcard(t *testing.T) {
	cat, err := ParseCatalogue([]byte(sampleCatalogue))
	require.NoError(t, err)

	matched := cat.Match("http://example.org/p", "X")
	require.Len(t, matched, 2, "both exact rules fire")
	assert.Equal(t, "r2", matched[0].ID)
	assert.Equal(t, "r3", matched[1].ID)
}

func TestCatalogue_Match_WildcardFallback(t *testing.T) {
	cat, err := ParseCatalogue([]byte(sampleCatalogue))
	require.NoError(t, err)

	matched := cat.Match("http://example.org/p", "Y")
	require.Len(t, matched, 1)
	assert.Equal(t, "r1", matched[0].ID)
}

func TestCatalogue_Match_UnknownPredicate(t *testing.T) {
	cat, err := ParseCatalogue([]byte(sampleCatalogue))
	require.NoError(t, err)

	assert.Nil(t, cat.Match("http://example.org/unknown", "X"))
}

func TestLoadCatalogue_FileErrors(t *testing.T) {
	_, err := LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadCatalogue_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalogue), 0644))

	cat, err := LoadCatalogue(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
}
