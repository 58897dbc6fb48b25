// Package chunk writes the three paired artifacts of one flushed crawl
// chunk: the raw source snapshot, the transformed dataset, and a
// self-contained SPARQL insert command.
package chunk

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ficlit/vaultmigrate/vocab"
)

// Writer flushes chunk buffers to the output directory. Each flush produces
// source-NNN.ttl, dataset-NNN.trig, and insert-NNN.rq with pairwise
// consistent triple content. A failed write is fatal to the run; partially
// written chunks are not retried.
type Writer struct {
	OutDir   string
	GraphURI string
	Logger   *slog.Logger
}

// NewWriter creates a Writer targeting dir and the given named graph. The
// directory is created if missing.
func NewWriter(dir, graphURI string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Writer{OutDir: dir, GraphURI: graphURI, Logger: logger}, nil
}

// Flush writes one chunk. It is a no-op when there are no target triples,
// so a trailing empty chunk never touches the filesystem.
func (w *Writer) Flush(srcBlocks, triples []string, idx int) error {
	if len(triples) == 0 {
		return nil
	}

	srcPath := filepath.Join(w.OutDir, fmt.Sprintf("source-%03d.ttl", idx))
	if err := os.WriteFile(srcPath, []byte(strings.Join(srcBlocks, "\n\n")), 0644); err != nil {
		return fmt.Errorf("write %s: %w", srcPath, err)
	}

	trigContent := strings.Join(triples, "\n")
	trigPath := filepath.Join(w.OutDir, fmt.Sprintf("dataset-%03d.trig", idx))
	if err := os.WriteFile(trigPath, []byte(trigContent), 0644); err != nil {
		return fmt.Errorf("write %s: %w", trigPath, err)
	}

	rqPath := filepath.Join(w.OutDir, fmt.Sprintf("insert-%03d.rq", idx))
	if err := os.WriteFile(rqPath, []byte(insertStatement(w.GraphURI, trigContent)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", rqPath, err)
	}

	w.Logger.Info("Flushed chunk",
		"index", idx,
		"file", filepath.Base(rqPath),
		"triples", len(triples))
	return nil
}

// insertStatement envelopes the dataset triples in the fixed prefix block
// and an INSERT DATA command targeting the named graph.
func insertStatement(graphURI, trigContent string) string {
	var sb strings.Builder
	sb.WriteString(vocab.PrefixBlock)
	sb.WriteString("\nINSERT DATA {\n")
	fmt.Fprintf(&sb, "    GRAPH <%s> {\n", graphURI)
	sb.WriteString(indent(trigContent, 8))
	sb.WriteString("\n    }\n};\n")
	return sb.String()
}

// indent prefixes every non-empty line with n spaces.
func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
