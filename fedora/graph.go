package fedora

import (
	"fmt"
	"strings"

	"github.com/knakk/rdf"
)

// Graph is one fetched RDF document: its triples in document order, tagged
// with the URI it was actually fetched from (which differs from the
// requested URI when the metadata-endpoint fallback occurred).
type Graph struct {
	URI     string
	Triples []rdf.Triple
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.Triples)
}

// Serialize renders the graph as Turtle statement lines, one triple per
// line, preserving document order.
func (g *Graph) Serialize() string {
	var sb strings.Builder
	for _, t := range g.Triples {
		fmt.Fprintf(&sb, "%s %s %s .\n",
			t.Subj.Serialize(rdf.Turtle),
			t.Pred.Serialize(rdf.Turtle),
			t.Obj.Serialize(rdf.Turtle))
	}
	return sb.String()
}

// ParseGraph decodes a Turtle document fetched from uri. The fetched URI is
// injected as the @base so relative references resolve against it.
func ParseGraph(uri, body string) (*Graph, error) {
	input := body
	if uri != "" && !strings.Contains(body, "@base") {
		input = fmt.Sprintf("@base <%s> .\n%s", uri, body)
	}

	dec := rdf.NewTripleDecoder(strings.NewReader(input), rdf.Turtle)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("parse turtle from %s: %w", uri, err)
	}

	return &Graph{URI: uri, Triples: triples}, nil
}
