package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ficlit/vaultmigrate/metrics"
	"github.com/ficlit/vaultmigrate/omeka"
	"github.com/ficlit/vaultmigrate/osync"
	"github.com/ficlit/vaultmigrate/rules"
)

func syncCmd(makeApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Query the triplestore and upsert items into Omeka S",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := makeApp()
			if err != nil {
				return err
			}
			return runSync(cmd, a)
		},
	}
}

func runSync(cmd *cobra.Command, a *app) error {
	if a.cfg.Omeka.BaseURL == "" {
		return fmt.Errorf("no Omeka endpoint: set omeka.base_url")
	}

	mapping, err := rules.LoadMapping(a.cfg.Omeka.MappingFile)
	if err != nil {
		return err
	}

	store, err := newStore(a)
	if err != nil {
		return err
	}

	client := omeka.NewClient(a.cfg.Omeka.BaseURL, a.cfg.Omeka.KeyIdentity, a.cfg.Omeka.KeyCredential,
		omeka.WithLogger(a.logger))

	driver := osync.NewDriver(store, client, mapping, a.cfg.Media.Root,
		osync.WithResourceClassID(a.cfg.Omeka.ResourceClassID),
		osync.WithItemSetID(a.cfg.Omeka.ItemSetID),
		osync.WithLogger(a.logger),
		osync.WithMetrics(metrics.NewSync(a.registry)))

	start := time.Now()
	summary, err := driver.Run(cmd.Context())
	if summary != nil {
		a.recordSummary("sync", start, summary.Rows, summary.Failures)
	}
	return err
}
