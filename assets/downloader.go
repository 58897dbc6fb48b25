package assets

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultWorkers bounds concurrent downloads.
const DefaultWorkers = 5

// BinaryFetcher retrieves raw binary content from a repository URI.
type BinaryFetcher interface {
	FetchBinary(ctx context.Context, uri string) ([]byte, error)
}

// Downloader pulls every binary listed in a files.txt, converts it to JPEG,
// and writes it under the output directory mirroring the repository path
// after the path marker.
type Downloader struct {
	fetcher    BinaryFetcher
	outDir     string
	pathMarker string
	workers    int
	logger     *slog.Logger
}

// DownloadOption configures a Downloader.
type DownloadOption func(*Downloader)

// WithWorkers sets the download concurrency.
func WithWorkers(n int) DownloadOption {
	return func(d *Downloader) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithPathMarker overrides the repository path marker used to derive local
// paths.
func WithPathMarker(marker string) DownloadOption {
	return func(d *Downloader) {
		d.pathMarker = marker
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DownloadOption {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader creates a Downloader writing under outDir.
func NewDownloader(fetcher BinaryFetcher, outDir string, opts ...DownloadOption) *Downloader {
	d := &Downloader{
		fetcher:    fetcher,
		outDir:     outDir,
		pathMarker: "/repo/rest/",
		workers:    DefaultWorkers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadList parses a binary list file: one URI per line, blank lines and
// #-comments skipped.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var uris []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uris = append(uris, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return uris, nil
}

// LocalPath derives the on-disk destination for a repository URI: the path
// after the marker, mirrored as directories, with .jpg appended to the
// original filename.
func (d *Downloader) LocalPath(uri string) string {
	rel := path.Base(uri)
	if idx := strings.LastIndex(uri, d.pathMarker); idx >= 0 {
		rel = uri[idx+len(d.pathMarker):]
	}
	return filepath.Join(d.outDir, filepath.FromSlash(rel)+".jpg")
}

// DownloadSummary reports the outcome of one download run.
type DownloadSummary struct {
	Downloaded int
	Failures   int
	Elapsed    time.Duration
}

// Run downloads every URI in listPath with a bounded worker pool. Per-file
// failures are logged and counted; only list and context faults abort.
func (d *Downloader) Run(ctx context.Context, listPath string) (*DownloadSummary, error) {
	uris, err := ReadList(listPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &DownloadSummary{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	tasks := make(chan string)

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for uri := range tasks {
				err := d.download(ctx, uri)
				mu.Lock()
				if err != nil {
					d.logger.Error("Download failed", "uri", uri, "error", err)
					summary.Failures++
				} else {
					summary.Downloaded++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, uri := range uris {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- uri:
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	summary.Elapsed = time.Since(start)
	d.logger.Info("Download finished",
		"downloaded", summary.Downloaded,
		"failures", summary.Failures,
		"elapsed", summary.Elapsed.Round(100*time.Millisecond))
	return summary, nil
}

func (d *Downloader) download(ctx context.Context, uri string) error {
	data, err := d.fetcher.FetchBinary(ctx, uri)
	if err != nil {
		return err
	}

	converted, err := ToJPEG(data)
	if err != nil {
		return err
	}

	dest := d.LocalPath(uri)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, converted, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	d.logger.Debug("Saved binary", "uri", uri, "path", dest)
	return nil
}
