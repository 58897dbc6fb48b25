// Package crawl walks a Fedora resource hierarchy breadth-first, feeding
// each fetched graph through the transformer and flushing chunked output.
//
// Traversal is sequential and order-dependent: chunk numbering follows the
// order resources are processed, so there is no internal parallelism.
// Fetch failures are isolated per resource; only configuration and write
// faults abort a crawl.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ficlit/vaultmigrate/chunk"
	"github.com/ficlit/vaultmigrate/fedora"
	"github.com/ficlit/vaultmigrate/metrics"
	"github.com/ficlit/vaultmigrate/transform"
)

// BinaryListFile is the fixed-name output listing binary resource URIs for
// the downstream download phase.
const BinaryListFile = "files.txt"

// Fetcher resolves a URI to its RDF graph and the effective fetch URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*fedora.Graph, string, error)
}

// Summary reports the outcome of one crawl.
type Summary struct {
	Processed       int
	Chunks          int
	FetchFailures   int
	BinaryResources int
	Elapsed         time.Duration
}

// Crawler drives the harvest phase.
type Crawler struct {
	fetcher      Fetcher
	transformer  *transform.Transformer
	writer       *chunk.Writer
	chunkSize    int
	maxResources int
	logger       *slog.Logger
	metrics      *metrics.Harvest
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithChunkSize sets the flush threshold (resources per chunk).
func WithChunkSize(n int) Option {
	return func(c *Crawler) {
		c.chunkSize = n
	}
}

// WithMaxResources caps the number of processed resources (0 = unlimited).
func WithMaxResources(n int) Option {
	return func(c *Crawler) {
		c.maxResources = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithMetrics attaches harvest instrumentation.
func WithMetrics(m *metrics.Harvest) Option {
	return func(c *Crawler) {
		c.metrics = m
	}
}

// DefaultChunkSize is the flush threshold when none is configured.
const DefaultChunkSize = 10000

// New creates a Crawler.
func New(fetcher Fetcher, transformer *transform.Transformer, writer *chunk.Writer, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:     fetcher,
		transformer: transformer,
		writer:      writer,
		chunkSize:   DefaultChunkSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run crawls from seedURI until the queue is exhausted, the resource cap is
// reached, or the context is cancelled. A final flush covers the last
// partial chunk; collected binary references are written to files.txt.
func (c *Crawler) Run(ctx context.Context, seedURI string) (*Summary, error) {
	start := time.Now()
	state := NewState(seedURI)
	summary := &Summary{}

	for !state.Done(c.maxResources) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		uri, ok := state.Next()
		if !ok {
			break
		}

		g, effective, err := c.fetcher.Fetch(ctx, uri)
		if err != nil {
			c.logger.Error("Failed to fetch resource", "uri", uri, "error", err)
			summary.FetchFailures++
			c.metrics.ObserveFetchFailure()
			continue
		}

		binariesBefore := len(state.BinaryURLs)
		state.Observe(g, uri, effective, c.transformer.Apply(g))
		c.metrics.ObserveProcessed()
		if len(state.BinaryURLs) > binariesBefore {
			c.metrics.ObserveBinary()
		}

		if state.AtChunkBoundary(c.chunkSize) {
			if err := c.flush(state, summary); err != nil {
				return summary, err
			}
			state.AdvanceChunk()
		}
	}

	// Final flush covers a non-empty partial last chunk.
	if err := c.flush(state, summary); err != nil {
		return summary, err
	}

	if len(state.BinaryURLs) > 0 {
		path := filepath.Join(c.writer.OutDir, BinaryListFile)
		content := strings.Join(state.BinaryURLs, "\n")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return summary, fmt.Errorf("write %s: %w", path, err)
		}
		c.logger.Info("Wrote binary resource list", "path", path, "count", len(state.BinaryURLs))
	}

	summary.Processed = state.Processed
	summary.BinaryResources = len(state.BinaryURLs)
	summary.Elapsed = time.Since(start)

	c.logger.Info("Crawl finished",
		"processed", summary.Processed,
		"chunks", summary.Chunks,
		"fetch_failures", summary.FetchFailures,
		"binary_resources", summary.BinaryResources,
		"elapsed", summary.Elapsed.Round(100*time.Millisecond))
	return summary, nil
}

func (c *Crawler) flush(state *State, summary *Summary) error {
	if len(state.TgtBuf) == 0 {
		return nil
	}
	if err := c.writer.Flush(state.SrcBuf, state.TgtBuf, state.ChunkIndex); err != nil {
		return err
	}
	summary.Chunks++
	c.metrics.ObserveChunk()
	return nil
}
