package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficlit/vaultmigrate/fedora"
	"github.com/ficlit/vaultmigrate/rules"
)

func mustGraph(t *testing.T, uri, body string) *fedora.Graph {
	t.Helper()
	g, err := fedora.ParseGraph(uri, body)
	require.NoError(t, err)
	return g
}

func mustCatalogue(t *testing.T, doc string) *rules.Catalogue {
	t.Helper()
	cat, err := rules.ParseCatalogue([]byte(doc))
	require.NoError(t, err)
	return cat
}

func TestTransformer_ExactBeatsLoose(t *testing.T) {
	cat := mustCatalogue(t, `
rules:
  - id: loose
    source_predicate: http://example.org/p
    target_pattern: "?s ex:loose ?o ."
  - id: exact
    source_predicate: http://example.org/p
    object_equals: "X"
    target_pattern: "?s ex:exact ?o ."
`)
	g := mustGraph(t, "http://example.org/a",
		`<http://example.org/a> <http://example.org/p> "X" .`+"\n")

	out := New(cat).Apply(g)
	require.Len(t, out, 1)
	assert.Equal(t, `<http://example.org/a> ex:exact "X" .`, out[0])
}

func TestTransformer_MultipleExactMatchesAllFire(t *testing.T) {
	cat := mustCatalogue(t, `
rules:
  - id: e1
    source_predicate: http://example.org/p
    object_equals: "X"
    target_pattern: "?s ex:one ?o ."
  - id: e2
    source_predicate: http://example.org/p
    object_equals: "X"
    target_pattern: "?s ex:two ?o ."
`)
	g := mustGraph(t, "http://example.org/a",
		`<http://example.org/a> <http://example.org/p> "X" .`+"\n")

	out := New(cat).Apply(g)
	require.Len(t, out, 2)
	assert.Equal(t, `<http://example.org/a> ex:one "X" .`, out[0])
	assert.Equal(t, `<http://example.org/a> ex:two "X" .`, out[1])
}

func TestTransformer_PassthroughWhenNoRule(t *testing.T) {
	cat := mustCatalogue(t, "rules: []\n")
	g := mustGraph(t, "http://example.org/a",
		`<http://example.org/a> <http://example.org/p> <http://example.org/b> .`+"\n")

	out := New(cat).Apply(g)
	require.Len(t, out, 1)
	assert.Equal(t,
		"<http://example.org/a> <http://example.org/p> <http://example.org/b> .",
		out[0])
}

func TestTransformer_PassthroughIdempotent(t *testing.T) {
	cat := mustCatalogue(t, "rules: []\n")
	g := mustGraph(t, "http://example.org/a",
		`<http://example.org/a> <http://example.org/p> "v" .`+"\n")

	tr := New(cat)
	first := tr.Apply(g)
	second := tr.Apply(g)
	assert.Equal(t, first, second)
}

func TestTransformer_NoSilentDrops(t *testing.T) {
	cat := mustCatalogue(t, `
rules:
  - id: r1
    source_predicate: http://example.org/p1
    target_pattern: "?s ex:mapped ?o ."
`)
	g := mustGraph(t, "http://example.org/a", `
<http://example.org/a> <http://example.org/p1> "mapped" .
<http://example.org/a> <http://example.org/p2> "unmapped" .
<http://example.org/b> <http://example.org/p3> <http://example.org/c> .
`)

	out := New(cat).Apply(g)
	assert.GreaterOrEqual(t, len(out), g.Len(), "every source triple yields at least one line")
}

func TestTransformer_FilenameDerivation(t *testing.T) {
	cat := mustCatalogue(t, "rules: []\n")
	g := mustGraph(t, "http://host/repo/rest/A/B/C.tif/fcr:metadata",
		`<http://host/repo/rest/A/B/C.tif> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename> "" .`+"\n")

	out := New(cat).Apply(g)
	require.Len(t, out, 2)
	assert.Equal(t,
		`<http://host/repo/rest/A/B/C.tif> ex:PX_has_file_name "A!B!C.tif.jpg" .`,
		out[0])
	assert.Equal(t,
		`<http://host/repo/rest/A/B/C.tif> rdfs:label "C.tif.jpg" .`,
		out[1])
}

func TestTransformer_FilenameInterceptionSkipsRules(t *testing.T) {
	// A rule on the filename predicate must not fire when the object is
	// empty; the synthetic derivation owns that triple entirely.
	cat := mustCatalogue(t, `
rules:
  - id: fn
    source_predicate: http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename
    target_pattern: "?s ex:file_name ?o ."
`)
	g := mustGraph(t, "http://host/repo/rest/X/fcr:metadata", `
<http://host/repo/rest/X> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename> "" .
<http://host/repo/rest/X> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename> "real.tif" .
`)

	out := New(cat).Apply(g)
	require.Len(t, out, 3)
	assert.Contains(t, out[0], "ex:PX_has_file_name")
	assert.Contains(t, out[1], "rdfs:label")
	assert.Equal(t, `<http://host/repo/rest/X> ex:file_name "real.tif" .`, out[2])
}

func TestTransformer_ForcedJpgIgnoresMime(t *testing.T) {
	cat := mustCatalogue(t, "rules: []\n")
	g := mustGraph(t, "http://host/repo/rest/A/B.png/fcr:metadata", `
<http://host/repo/rest/A/B.png> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#hasMimeType> "image/png" .
<http://host/repo/rest/A/B.png> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename> "" .
`)

	out := New(cat).Apply(g)
	require.Len(t, out, 3)
	assert.Contains(t, out[1], `"A!B.png.jpg"`)
	assert.Contains(t, out[2], `"B.png.jpg"`)
}

func TestTransformer_CustomPathMarker(t *testing.T) {
	cat := mustCatalogue(t, "rules: []\n")
	g := mustGraph(t, "http://host/fedora/objects/D/E.tif/fcr:metadata",
		`<http://host/fedora/objects/D/E.tif> <http://www.ebu.ch/metadata/ontologies/ebucore/ebucore#filename> "" .`+"\n")

	out := New(cat, WithPathMarker("/fedora/objects/")).Apply(g)
	require.Len(t, out, 2)
	assert.Contains(t, out[0], `"D!E.tif.jpg"`)
	assert.Contains(t, out[1], `"E.tif.jpg"`)
}
