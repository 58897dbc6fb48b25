package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ficlit/vaultmigrate/triplestore"
)

func pushCmd(makeApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Execute generated update files against the triplestore",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := makeApp()
			if err != nil {
				return err
			}
			return runPush(cmd, a)
		},
	}
}

func runPush(cmd *cobra.Command, a *app) error {
	store, err := newStore(a)
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := store.Push(cmd.Context(), a.cfg.Harvest.OutDir)
	if summary != nil {
		a.recordSummary("push", start, summary.Files, summary.Failures)
	}
	return err
}

func newStore(a *app) (*triplestore.Store, error) {
	if a.cfg.Sparql.Endpoint == "" {
		return nil, fmt.Errorf("no SPARQL endpoint: set sparql.endpoint")
	}
	opts := []triplestore.Option{
		triplestore.WithLogger(a.logger),
		triplestore.WithTimeout(a.cfg.Sparql.Timeout),
	}
	if a.cfg.Sparql.User != "" {
		opts = append(opts, triplestore.WithDigestAuth(a.cfg.Sparql.User, a.cfg.Sparql.Password))
	}
	return triplestore.New(a.cfg.Sparql.Endpoint, opts...)
}
