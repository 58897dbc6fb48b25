// Package transform rewrites harvested source graphs into the target
// ontology using the loaded rule catalogue.
//
// The transformer is a pure function over one graph: every source triple
// contributes at least one output line (template expansions when rules
// match, a verbatim passthrough otherwise), and output order follows the
// graph's document order so repeated runs over the same input are identical.
package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knakk/rdf"

	"github.com/ficlit/vaultmigrate/fedora"
	"github.com/ficlit/vaultmigrate/rules"
	"github.com/ficlit/vaultmigrate/vocab"
)

// DefaultPathMarker splits a Fedora subject URI into the repository-relative
// path used for synthetic filename derivation.
const DefaultPathMarker = "/repo/rest/"

// Transformer applies the transformation catalogue to fetched graphs.
type Transformer struct {
	catalogue  *rules.Catalogue
	pathMarker string
	logger     *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithPathMarker overrides the path-segment marker used when deriving
// filenames from subject URIs.
func WithPathMarker(marker string) Option {
	return func(t *Transformer) {
		t.pathMarker = marker
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		t.logger = logger
	}
}

// New creates a Transformer over the given catalogue.
func New(catalogue *rules.Catalogue, opts ...Option) *Transformer {
	t := &Transformer{
		catalogue:  catalogue,
		pathMarker: DefaultPathMarker,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Apply transforms one source graph into an ordered sequence of target
// triple lines. The source graph is not mutated.
func (t *Transformer) Apply(g *fedora.Graph) []string {
	out := make([]string, 0, g.Len())

	// Mime types are collected up front so extension guessing can consult
	// them; conversion currently normalizes every asset to JPEG, so the
	// lookup does not influence the extension yet.
	mimeLookup := make(map[string]string)
	for _, tr := range g.Triples {
		if tr.Pred.String() == vocab.EBUCoreHasMimeType {
			mimeLookup[tr.Subj.String()] = tr.Obj.String()
		}
	}

	for _, tr := range g.Triples {
		pred := tr.Pred.String()
		obj := tr.Obj.String()

		if pred == vocab.EBUCoreFilename && isEmptyFilename(obj) {
			subj := tr.Subj.Serialize(rdf.Turtle)
			flat, simple := t.deriveFilename(tr.Subj.String(), mimeLookup[tr.Subj.String()])
			out = append(out,
				fmt.Sprintf("%s %s %q .", subj, vocab.HasFileName, flat),
				fmt.Sprintf("%s %s %q .", subj, vocab.RDFSLabel, simple),
			)
			continue
		}

		matched := t.catalogue.Match(pred, obj)
		if len(matched) == 0 {
			out = append(out, fmt.Sprintf("%s %s %s .",
				tr.Subj.Serialize(rdf.Turtle),
				tr.Pred.Serialize(rdf.Turtle),
				tr.Obj.Serialize(rdf.Turtle)))
			continue
		}

		for _, r := range matched {
			out = append(out, r.Template.Expand(
				tr.Subj.Serialize(rdf.Turtle),
				tr.Obj.Serialize(rdf.Turtle)))
		}
	}

	t.logger.Debug("Generated target triples", "source", g.URI, "count", len(out))
	return out
}

// deriveFilename builds the synthetic filenames for a binary resource whose
// filename property is empty: the repository-relative path flattened with
// '!' and its final segment, both forced to a .jpg extension.
func (t *Transformer) deriveFilename(subjectURI, mime string) (flat, simple string) {
	rel := subjectURI
	if i := strings.LastIndex(subjectURI, t.pathMarker); i >= 0 {
		rel = subjectURI[i+len(t.pathMarker):]
	}

	ext := extensionFor(mime)
	flat = strings.ReplaceAll(rel, "/", "!") + ext
	segments := strings.Split(rel, "/")
	simple = segments[len(segments)-1] + ext
	return flat, simple
}

// extensionFor maps a detected mime type to a file extension. All assets
// are converted to JPEG downstream, so the answer is always .jpg for now.
func extensionFor(string) string {
	return ".jpg"
}

// isEmptyFilename reports whether a filename object is absent: empty, all
// whitespace, or an empty quoted string.
func isEmptyFilename(o string) bool {
	s := strings.TrimSpace(o)
	s = strings.Trim(s, `"`)
	return s == ""
}
