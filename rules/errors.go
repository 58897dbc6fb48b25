package rules

import "fmt"

// ConfigError reports a structurally invalid rule document. It is fatal:
// callers must not start a crawl or sync with a catalogue that failed to load.
type ConfigError struct {
	Path string
	err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rule catalogue %s: %v", e.Path, e.err)
	}
	return fmt.Sprintf("rule catalogue: %v", e.err)
}

func (e *ConfigError) Unwrap() error {
	return e.err
}

// NewConfigError wraps err as a fatal catalogue configuration error.
func NewConfigError(path string, err error) error {
	return &ConfigError{Path: path, err: err}
}
