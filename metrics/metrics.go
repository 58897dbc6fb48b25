// Package metrics exposes Prometheus instrumentation for long-running
// migration phases and appends per-run summary rows to a CSV log.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Harvest holds the counters of the Fedora harvest phase. A nil *Harvest is
// valid and records nothing, so instrumentation stays optional.
type Harvest struct {
	ResourcesProcessed prometheus.Counter
	FetchFailures      prometheus.Counter
	ChunksFlushed      prometheus.Counter
	BinaryResources    prometheus.Counter
}

// NewHarvest creates and registers the harvest counters.
func NewHarvest(reg prometheus.Registerer) *Harvest {
	h := &Harvest{
		ResourcesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_harvest_resources_processed_total",
			Help: "Resources fetched and transformed during the crawl.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_harvest_fetch_failures_total",
			Help: "Per-resource fetch failures (skipped, crawl continues).",
		}),
		ChunksFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_harvest_chunks_flushed_total",
			Help: "Output chunks written to disk.",
		}),
		BinaryResources: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_harvest_binary_resources_total",
			Help: "Binary resources detected via the metadata-endpoint fallback.",
		}),
	}
	reg.MustRegister(h.ResourcesProcessed, h.FetchFailures, h.ChunksFlushed, h.BinaryResources)
	return h
}

// ObserveProcessed increments the processed-resources counter.
func (h *Harvest) ObserveProcessed() {
	if h != nil {
		h.ResourcesProcessed.Inc()
	}
}

// ObserveFetchFailure increments the fetch-failure counter.
func (h *Harvest) ObserveFetchFailure() {
	if h != nil {
		h.FetchFailures.Inc()
	}
}

// ObserveChunk increments the flushed-chunk counter.
func (h *Harvest) ObserveChunk() {
	if h != nil {
		h.ChunksFlushed.Inc()
	}
}

// ObserveBinary increments the binary-resource counter.
func (h *Harvest) ObserveBinary() {
	if h != nil {
		h.BinaryResources.Inc()
	}
}

// Sync holds the counters of the triplestore→Omeka sync phase. A nil *Sync
// records nothing.
type Sync struct {
	ItemsCreated   prometheus.Counter
	ItemsUpdated   prometheus.Counter
	UpsertFailures prometheus.Counter
	MediaAttached  prometheus.Counter
	MediaSkipped   prometheus.Counter
}

// NewSync creates and registers the sync counters.
func NewSync(reg prometheus.Registerer) *Sync {
	s := &Sync{
		ItemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_sync_items_created_total",
			Help: "Omeka items created.",
		}),
		ItemsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_sync_items_updated_total",
			Help: "Omeka items updated.",
		}),
		UpsertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_sync_upsert_failures_total",
			Help: "Item create/update calls rejected by Omeka.",
		}),
		MediaAttached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_sync_media_attached_total",
			Help: "Media files uploaded and attached to items.",
		}),
		MediaSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultmigrate_sync_media_skipped_total",
			Help: "Media attachments skipped (already present, missing file, or upload failure).",
		}),
	}
	reg.MustRegister(s.ItemsCreated, s.ItemsUpdated, s.UpsertFailures, s.MediaAttached, s.MediaSkipped)
	return s
}

// ObserveUpsert records one upsert outcome by status.
func (s *Sync) ObserveUpsert(status string) {
	if s == nil {
		return
	}
	switch status {
	case "created":
		s.ItemsCreated.Inc()
	case "updated":
		s.ItemsUpdated.Inc()
	default:
		s.UpsertFailures.Inc()
	}
}

// ObserveMedia records one media-attachment outcome.
func (s *Sync) ObserveMedia(attached bool) {
	if s == nil {
		return
	}
	if attached {
		s.MediaAttached.Inc()
	} else {
		s.MediaSkipped.Inc()
	}
}

// Handler returns the /metrics HTTP handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in a background goroutine so long crawls
// can be observed while they run. The returned server lets the caller shut
// it down.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
