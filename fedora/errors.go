package fedora

import (
	"errors"
	"fmt"
)

// NotRDFError is raised when the server responds with a non-RDF payload.
// It triggers the metadata-endpoint retry for binary resources.
type NotRDFError struct {
	URI         string
	ContentType string
}

func (e *NotRDFError) Error() string {
	return fmt.Sprintf("content type %q of %s is not RDF", e.ContentType, e.URI)
}

// IsNotRDF reports whether err indicates a non-RDF response.
func IsNotRDF(err error) bool {
	var notRDF *NotRDFError
	return errors.As(err, &notRDF)
}

// FetchError is an HTTP-level failure surfaced by the transport. Fetch
// failures are per-resource: the crawler logs them and continues.
type FetchError struct {
	URI    string
	Status int
	err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URI, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URI, e.err)
}

func (e *FetchError) Unwrap() error {
	return e.err
}
