package osync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knakk/rdf"

	"github.com/ficlit/vaultmigrate/assets"
	"github.com/ficlit/vaultmigrate/metrics"
	"github.com/ficlit/vaultmigrate/omeka"
	"github.com/ficlit/vaultmigrate/rules"
)

// MediaSeparator splits a multi-valued media binding into file references.
const MediaSeparator = "||"

// QueryService runs SELECT queries against the triplestore.
type QueryService interface {
	Select(query string) ([]map[string]rdf.Term, error)
}

// ItemService is the Omeka surface the driver needs.
type ItemService interface {
	Upsert(ctx context.Context, identifier string, d omeka.ItemDraft) (int, omeka.UpsertStatus, error)
	HasMedia(ctx context.Context, itemID int) (bool, error)
	AttachMedia(ctx context.Context, itemID int, filename string, jpeg []byte) error
}

// Driver executes one sync run.
type Driver struct {
	store           QueryService
	items           ItemService
	mapping         *rules.Mapping
	mediaRoot       string
	resourceClassID int
	itemSetID       int
	cache           *MediaCache
	logger          *slog.Logger
	metrics         *metrics.Sync
}

// Option configures a Driver.
type Option func(*Driver)

// WithResourceClassID sets the resource class assigned to upserted items.
func WithResourceClassID(id int) Option {
	return func(d *Driver) {
		d.resourceClassID = id
	}
}

// WithItemSetID sets the item set upserted items join.
func WithItemSetID(id int) Option {
	return func(d *Driver) {
		d.itemSetID = id
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithMetrics attaches sync instrumentation.
func WithMetrics(m *metrics.Sync) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// NewDriver creates a Driver. mediaRoot is the directory holding the
// downloaded binaries that media references resolve against.
func NewDriver(store QueryService, items ItemService, mapping *rules.Mapping, mediaRoot string, opts ...Option) *Driver {
	d := &Driver{
		store:           store,
		items:           items,
		mapping:         mapping,
		mediaRoot:       mediaRoot,
		resourceClassID: 32,
		itemSetID:       2,
		cache:           NewMediaCache(),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Summary reports the outcome of one sync run.
type Summary struct {
	Rows          int
	Created       int
	Updated       int
	Failures      int
	MediaAttached int
	MediaSkipped  int
	Elapsed       time.Duration
}

// Run builds the mapping query, fetches all solutions, and upserts one item
// per row. Upstream write failures are logged and counted per row; only
// query and configuration faults abort the run.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	identifierVar := d.identifierVar()

	query := BuildQuery(d.mapping)
	d.logger.Debug("Built mapping query", "query", query)

	rows, err := d.store.Select(query)
	if err != nil {
		return nil, fmt.Errorf("mapping query: %w", err)
	}

	start := time.Now()
	summary := &Summary{Rows: len(rows)}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		identifier := bindingValue(row, identifierVar)
		if identifier == "" {
			d.logger.Warn("Row without identifier skipped")
			summary.Failures++
			continue
		}

		if err := d.syncRow(ctx, identifier, row, summary); err != nil {
			var uw *omeka.UpstreamWriteError
			if errors.As(err, &uw) {
				d.logger.Error("Upsert rejected upstream", "identifier", identifier, "error", err)
			} else {
				d.logger.Error("Row sync failed", "identifier", identifier, "error", err)
			}
			summary.Failures++
			d.metrics.ObserveUpsert("none")
		}
	}

	summary.Elapsed = time.Since(start)
	d.logger.Info("Sync finished",
		"rows", summary.Rows,
		"created", summary.Created,
		"updated", summary.Updated,
		"failures", summary.Failures,
		"media_attached", summary.MediaAttached,
		"media_skipped", summary.MediaSkipped,
		"elapsed", summary.Elapsed.Round(100*time.Millisecond))
	return summary, nil
}

func (d *Driver) syncRow(ctx context.Context, identifier string, row map[string]rdf.Term, summary *Summary) error {
	draft := omeka.ItemDraft{
		Values:          map[string][]string{},
		ResourceClassID: d.resourceClassID,
		ItemSetID:       d.itemSetID,
	}
	var mediaRefs []string

	for _, f := range d.mapping.Fields {
		value := bindingValue(row, f.Select.As)
		if value == "" {
			continue
		}
		switch {
		case f.To.Special == "o:media":
			mediaRefs = append(mediaRefs, splitMediaRefs(value)...)
		case f.To.Property != "":
			draft.Values[f.To.Property] = append(draft.Values[f.To.Property], value)
		}
	}

	id, status, err := d.items.Upsert(ctx, identifier, draft)
	if err != nil {
		return err
	}
	d.metrics.ObserveUpsert(string(status))
	switch status {
	case omeka.StatusCreated:
		summary.Created++
	case omeka.StatusUpdated:
		summary.Updated++
	}
	d.logger.Info("Item upserted", "identifier", identifier, "item_id", id, "status", status)

	if len(mediaRefs) > 0 {
		d.attachMedia(ctx, id, mediaRefs, summary)
	}
	return nil
}

// attachMedia uploads the referenced files to the item unless this run or a
// previous one already gave it media. Every reference that does not end in
// an upload counts as skipped; problems are logged per file and never fail
// the row.
func (d *Driver) attachMedia(ctx context.Context, itemID int, refs []string, summary *Summary) {
	skip := func() {
		summary.MediaSkipped++
		d.metrics.ObserveMedia(false)
	}

	if d.cache.Seen(itemID) {
		skip()
		return
	}

	has, err := d.items.HasMedia(ctx, itemID)
	if err != nil {
		d.logger.Error("Media check failed", "item_id", itemID, "error", err)
		skip()
		return
	}
	if has {
		d.cache.Mark(itemID)
		skip()
		return
	}

	attachedAny := false
	for _, ref := range refs {
		path := d.resolveMediaPath(ref)
		if _, err := os.Stat(path); err != nil {
			d.logger.Warn("Media file not found", "ref", ref, "path", path)
			skip()
			continue
		}

		data, err := assets.ConvertFileToJPEG(path)
		if err != nil {
			d.logger.Error("Media conversion failed", "path", path, "error", err)
			skip()
			continue
		}

		if err := d.items.AttachMedia(ctx, itemID, filepath.Base(path), data); err != nil {
			d.logger.Error("Media upload failed", "item_id", itemID, "path", path, "error", err)
			skip()
			continue
		}
		attachedAny = true
		summary.MediaAttached++
		d.metrics.ObserveMedia(true)
	}

	if attachedAny {
		d.cache.Mark(itemID)
	}
}

// resolveMediaPath turns a flattened media reference back into a path under
// the media root: segment separators were encoded as "!" by the harvest.
func (d *Driver) resolveMediaPath(ref string) string {
	rel := strings.ReplaceAll(ref, "!", string(filepath.Separator))
	return filepath.Join(d.mediaRoot, rel)
}

// identifierVar finds the SELECT variable the upsert keys items on: the
// field bound to dcterms:identifier, or the root subject binding when the
// mapping has no identifier field.
func (d *Driver) identifierVar() string {
	for _, f := range d.mapping.Fields {
		if f.To.Property == "dcterms:identifier" {
			return f.Select.As
		}
	}
	return d.mapping.Root.SubjectVar
}

func splitMediaRefs(value string) []string {
	var refs []string
	for _, part := range strings.Split(value, MediaSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

func bindingValue(row map[string]rdf.Term, name string) string {
	term, ok := row[name]
	if !ok || term == nil {
		return ""
	}
	return term.String()
}
