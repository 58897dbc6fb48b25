package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RunSummary is one appended row of the performance log: enough to compare
// runtime, throughput, and error rate across runs of each phase.
type RunSummary struct {
	RunID     string
	Phase     string
	StartedAt time.Time
	Elapsed   time.Duration
	Processed int
	Errors    int
}

var summaryHeader = []string{"run_id", "phase", "started_at", "elapsed_s", "processed", "errors"}

// AppendRunSummary appends a summary row to the CSV at path, writing the
// header when the file is new. The parent directory is created if missing.
func AppendRunSummary(path string, s RunSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(summaryHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	row := []string{
		s.RunID,
		s.Phase,
		s.StartedAt.UTC().Format(time.RFC3339),
		strconv.FormatFloat(s.Elapsed.Seconds(), 'f', 1, 64),
		strconv.Itoa(s.Processed),
		strconv.Itoa(s.Errors),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}
