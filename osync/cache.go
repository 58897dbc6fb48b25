package osync

// MediaCache remembers which items received media during the current run so
// re-encountered rows (duplicate identifiers, reruns over overlapping query
// pages) do not upload the same files twice. It is per-run state only; the
// durable "already has media" check is the item lookup itself.
type MediaCache struct {
	attached map[int]struct{}
}

// NewMediaCache creates an empty cache.
func NewMediaCache() *MediaCache {
	return &MediaCache{attached: make(map[int]struct{})}
}

// Seen reports whether the item was already handled this run.
func (c *MediaCache) Seen(itemID int) bool {
	_, ok := c.attached[itemID]
	return ok
}

// Mark records the item as handled.
func (c *MediaCache) Mark(itemID int) {
	c.attached[itemID] = struct{}{}
}

// Len returns the number of marked items.
func (c *MediaCache) Len() int {
	return len(c.attached)
}
