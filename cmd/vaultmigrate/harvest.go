package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ficlit/vaultmigrate/chunk"
	"github.com/ficlit/vaultmigrate/crawl"
	"github.com/ficlit/vaultmigrate/metrics"
	"github.com/ficlit/vaultmigrate/rules"
	"github.com/ficlit/vaultmigrate/transform"
)

func harvestCmd(makeApp func() (*app, error)) *cobra.Command {
	var (
		seedURI      string
		maxResources int
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Crawl the repository and write chunked transformation output",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := makeApp()
			if err != nil {
				return err
			}
			if seedURI != "" {
				a.cfg.Fedora.SeedURI = seedURI
			}
			if cmd.Flags().Changed("max-resources") {
				a.cfg.Harvest.MaxResources = maxResources
			}
			return runHarvest(cmd, a)
		},
	}

	cmd.Flags().StringVar(&seedURI, "seed", "", "Seed container URI (overrides config)")
	cmd.Flags().IntVar(&maxResources, "max-resources", 0, "Cap on processed resources, 0 = unlimited (overrides config)")
	return cmd
}

func runHarvest(cmd *cobra.Command, a *app) error {
	if a.cfg.Fedora.SeedURI == "" {
		return fmt.Errorf("no seed URI: set fedora.seed_uri or pass --seed")
	}

	catalogue, err := rules.LoadCatalogue(a.cfg.Harvest.RulesFile)
	if err != nil {
		return err
	}
	a.logger.Info("Loaded transformation catalogue",
		"path", a.cfg.Harvest.RulesFile, "rules", catalogue.Len())

	writer, err := chunk.NewWriter(a.cfg.Harvest.OutDir, a.cfg.Harvest.GraphURI, a.logger)
	if err != nil {
		return err
	}

	transformer := transform.New(catalogue,
		transform.WithPathMarker(a.cfg.Harvest.PathMarker),
		transform.WithLogger(a.logger))

	crawler := crawl.New(a.fedoraClient(), transformer, writer,
		crawl.WithChunkSize(a.cfg.Harvest.ChunkSize),
		crawl.WithMaxResources(a.cfg.Harvest.MaxResources),
		crawl.WithLogger(a.logger),
		crawl.WithMetrics(metrics.NewHarvest(a.registry)))

	start := time.Now()
	summary, err := crawler.Run(cmd.Context(), a.cfg.Fedora.SeedURI)
	if summary != nil {
		a.recordSummary("harvest", start, summary.Processed, summary.FetchFailures)
	}
	return err
}
