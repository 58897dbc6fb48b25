// Package fedora fetches RDF descriptions of Fedora 4 repository resources.
//
// Fedora serves binary (NonRDFSource) resources as raw bytes; their RDF
// description lives behind a /fcr:metadata sidecar endpoint. Fetch hides
// that split: it negotiates for RDF, detects non-RDF payloads, and retries
// the sidecar before giving up.
package fedora

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ficlit/vaultmigrate/vocab"
)

// maxBodySize caps fetched RDF documents to keep one bad resource from
// exhausting memory.
const maxBodySize = 50 * 1024 * 1024

// acceptHeader prefers Turtle but accepts other RDF media types so Fedora
// can negotiate.
const acceptHeader = "text/turtle, application/ld+json;q=0.9, " +
	"application/rdf+xml;q=0.8, text/n3;q=0.8, */*;q=0.1"

// Client fetches resources from a Fedora repository.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	username   string
	password   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBasicAuth enables HTTP basic auth on every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// NewClient creates a Fedora client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the RDF description of uri. It returns the parsed graph
// and the effective URI it was fetched from: when the primary response is
// not RDF (a binary resource) the /fcr:metadata sidecar is retried, and the
// effective URI carries that suffix. Failure of the retry, or a URI that
// already had the suffix, propagates the error.
func (c *Client) Fetch(ctx context.Context, uri string) (*Graph, string, error) {
	c.logger.Debug("Fetching resource", "uri", uri)

	effective := uri
	body, err := c.download(ctx, uri)
	if err != nil {
		if strings.HasSuffix(strings.TrimRight(uri, "/"), vocab.MetadataSuffix[1:]) {
			return nil, "", err
		}
		alt := strings.TrimRight(uri, "/") + vocab.MetadataSuffix
		c.logger.Debug("Retrying metadata endpoint", "uri", alt)
		body, err = c.download(ctx, alt)
		if err != nil {
			return nil, "", err
		}
		effective = alt
	}

	g, err := ParseGraph(effective, body)
	if err != nil {
		return nil, "", err
	}

	c.logger.Debug("Parsed resource", "uri", effective, "triples", g.Len())
	return g, effective, nil
}

// FetchBinary retrieves the raw bytes of a binary resource.
func (c *Client) FetchBinary(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &FetchError{URI: uri, err: err}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URI: uri, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URI: uri, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URI: uri, err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// download returns the body text if the response looks like RDF, else a
// NotRDFError or FetchError.
func (c *Client) download(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", &FetchError{URI: uri, err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URI: uri, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URI: uri, Status: resp.StatusCode}
	}

	ctype := resp.Header.Get("Content-Type")
	if !looksLikeRDF(ctype) {
		return "", &NotRDFError{URI: uri, ContentType: ctype}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &FetchError{URI: uri, err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

func looksLikeRDF(contentType string) bool {
	return strings.Contains(contentType, "text/turtle") ||
		strings.Contains(contentType, "rdf") ||
		strings.Contains(contentType, "ld+json")
}
