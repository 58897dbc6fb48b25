package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ficlit/vaultmigrate/config"
	"github.com/ficlit/vaultmigrate/fedora"
	"github.com/ficlit/vaultmigrate/metrics"
)

// app bundles the wiring every subcommand shares: configuration, logging,
// the metrics registry, and the run identity for the performance log.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	runID    string
}

func newApp(configPath, logLevel, metricsAddr string) (*app, error) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(configPath)
	if err != nil {
		return nil, err
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		runID:    uuid.New().String(),
	}

	if cfg.Metrics.Addr != "" {
		metrics.Serve(cfg.Metrics.Addr, a.registry)
		logger.Info("Serving metrics", "addr", cfg.Metrics.Addr)
	}

	logger.Info("Run starting", "run_id", a.runID, "version", Version)
	return a, nil
}

// fedoraClient builds the repository client from configuration.
func (a *app) fedoraClient() *fedora.Client {
	opts := []fedora.Option{fedora.WithLogger(a.logger)}
	if a.cfg.Fedora.User != "" {
		opts = append(opts, fedora.WithBasicAuth(a.cfg.Fedora.User, a.cfg.Fedora.Password))
	}
	if a.cfg.Fedora.Timeout > 0 {
		opts = append(opts, fedora.WithTimeout(a.cfg.Fedora.Timeout))
	}
	return fedora.NewClient(opts...)
}

// recordSummary appends one phase row to the performance log. Logged, never
// fatal: a broken log file must not fail a finished phase.
func (a *app) recordSummary(phase string, startedAt time.Time, processed, errCount int) {
	if a.cfg.Metrics.SummaryFile == "" {
		return
	}
	s := metrics.RunSummary{
		RunID:     a.runID,
		Phase:     phase,
		StartedAt: startedAt,
		Elapsed:   time.Since(startedAt),
		Processed: processed,
		Errors:    errCount,
	}
	if err := metrics.AppendRunSummary(a.cfg.Metrics.SummaryFile, s); err != nil {
		a.logger.Warn("Failed to append run summary", "path", a.cfg.Metrics.SummaryFile, "error", err)
	}
}
