// Package triplestore pushes generated SPARQL update files to a store and
// runs SELECT queries against it. It wraps knakk/sparql so callers deal in
// file paths and solution maps rather than HTTP details.
package triplestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knakk/rdf"
	"github.com/knakk/sparql"
)

// InsertFilePattern matches the chunked update files produced by a harvest.
const InsertFilePattern = "insert-*.rq"

// Store is a SPARQL endpoint client.
type Store struct {
	repo   *sparql.Repo
	logger *slog.Logger
}

type storeConfig struct {
	user    string
	pass    string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*storeConfig)

// WithDigestAuth sets HTTP digest credentials for the endpoint.
func WithDigestAuth(user, pass string) Option {
	return func(c *storeConfig) {
		c.user = user
		c.pass = pass
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *storeConfig) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// New creates a Store for the given SPARQL endpoint URL.
func New(endpoint string, opts ...Option) (*Store, error) {
	cfg := &storeConfig{
		timeout: 120 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repoOpts := []func(*sparql.Repo) error{sparql.Timeout(cfg.timeout)}
	if cfg.user != "" {
		repoOpts = append(repoOpts, sparql.DigestAuth(cfg.user, cfg.pass))
	}

	repo, err := sparql.NewRepo(endpoint, repoOpts...)
	if err != nil {
		return nil, fmt.Errorf("sparql endpoint %s: %w", endpoint, err)
	}
	return &Store{repo: repo, logger: cfg.logger}, nil
}

// PushSummary reports the outcome of a push over one output directory.
type PushSummary struct {
	Files    int
	Failures int
	Elapsed  time.Duration
}

// Push finds every chunked update file under dir and executes each against
// the endpoint in filename order. A failed file is logged and counted but
// does not stop the remaining files.
func (s *Store) Push(ctx context.Context, dir string) (*PushSummary, error) {
	start := time.Now()

	paths, err := doublestar.FilepathGlob(dir + "/" + InsertFilePattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s files under %s", InsertFilePattern, dir)
	}
	sort.Strings(paths)

	summary := &PushSummary{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return summary, fmt.Errorf("read %s: %w", path, err)
		}

		if err := s.repo.Update(string(data)); err != nil {
			s.logger.Error("Update file failed", "path", path, "error", err)
			summary.Failures++
			continue
		}
		summary.Files++
		s.logger.Info("Pushed update file", "path", path)
	}

	summary.Elapsed = time.Since(start)
	s.logger.Info("Push finished",
		"files", summary.Files,
		"failures", summary.Failures,
		"elapsed", summary.Elapsed.Round(100*time.Millisecond))
	return summary, nil
}

// Select runs a SELECT query and returns its solutions as variable→term maps
// in result order.
func (s *Store) Select(query string) ([]map[string]rdf.Term, error) {
	res, err := s.repo.Query(query)
	if err != nil {
		return nil, fmt.Errorf("select query: %w", err)
	}
	return res.Solutions(), nil
}
