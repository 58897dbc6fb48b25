package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ficlit/vaultmigrate/crawl"
)

func runCmd(makeApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full migration: harvest, push, download, sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := makeApp()
			if err != nil {
				return err
			}

			if err := runHarvest(cmd, a); err != nil {
				return err
			}
			if err := runPush(cmd, a); err != nil {
				return err
			}

			// A harvest without binary resources writes no list; the
			// download phase is simply skipped then.
			listPath := filepath.Join(a.cfg.Harvest.OutDir, crawl.BinaryListFile)
			if _, err := os.Stat(listPath); err == nil {
				if err := runDownload(cmd, a, listPath); err != nil {
					return err
				}
			} else {
				a.logger.Info("No binary list, skipping download", "path", listPath)
			}

			return runSync(cmd, a)
		},
	}
}
