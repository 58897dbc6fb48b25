package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ficlit/vaultmigrate/assets"
	"github.com/ficlit/vaultmigrate/crawl"
)

func downloadCmd(makeApp func() (*app, error)) *cobra.Command {
	var listPath string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download harvested binaries and convert them to JPEG",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := makeApp()
			if err != nil {
				return err
			}
			if listPath == "" {
				listPath = filepath.Join(a.cfg.Harvest.OutDir, crawl.BinaryListFile)
			}
			return runDownload(cmd, a, listPath)
		},
	}

	cmd.Flags().StringVar(&listPath, "list", "", "Binary list file (default: files.txt under the harvest output directory)")
	return cmd
}

func runDownload(cmd *cobra.Command, a *app, listPath string) error {
	downloader := assets.NewDownloader(a.fedoraClient(), a.cfg.Media.Root,
		assets.WithWorkers(a.cfg.Media.Workers),
		assets.WithPathMarker(a.cfg.Harvest.PathMarker),
		assets.WithLogger(a.logger))

	start := time.Now()
	summary, err := downloader.Run(cmd.Context(), listPath)
	if summary != nil {
		a.recordSummary("download", start, summary.Downloaded, summary.Failures)
	}
	return err
}
