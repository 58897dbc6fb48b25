package omeka

import "fmt"

// UpstreamWriteError reports a non-2xx response from an Omeka write
// endpoint. These are surfaced per item so a sync run can count and
// continue rather than abort.
type UpstreamWriteError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamWriteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("omeka %s: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("omeka %s: status %d", e.Op, e.Status)
}
