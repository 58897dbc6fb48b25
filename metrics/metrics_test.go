package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarvest_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHarvest(reg)

	h.ObserveProcessed()
	h.ObserveProcessed()
	h.ObserveFetchFailure()
	h.ObserveChunk()
	h.ObserveBinary()

	assert.Equal(t, 2.0, testutil.ToFloat64(h.ResourcesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.FetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.ChunksFlushed))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.BinaryResources))
}

func TestHarvest_NilSafe(t *testing.T) {
	var h *Harvest
	h.ObserveProcessed()
	h.ObserveFetchFailure()
	h.ObserveChunk()
	h.ObserveBinary()
}

func TestSync_ObserveUpsert(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSync(reg)

	s.ObserveUpsert("created")
	s.ObserveUpsert("updated")
	s.ObserveUpsert("none")
	s.ObserveMedia(true)
	s.ObserveMedia(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.ItemsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ItemsUpdated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.UpsertFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MediaAttached))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MediaSkipped))

	var nilSync *Sync
	nilSync.ObserveUpsert("created")
	nilSync.ObserveMedia(true)
}

func TestAppendRunSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "performance_log.csv")

	s := RunSummary{
		RunID:     "run-1",
		Phase:     "harvest",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   90 * time.Second,
		Processed: 42,
		Errors:    1,
	}
	require.NoError(t, AppendRunSummary(path, s))

	s.RunID = "run-2"
	require.NoError(t, AppendRunSummary(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "one header and two rows")
	assert.Equal(t, "run_id,phase,started_at,elapsed_s,processed,errors", lines[0])
	assert.Contains(t, lines[1], "run-1,harvest,2026-03-01T12:00:00Z,90.0,42,1")
	assert.Contains(t, lines[2], "run-2")
}
