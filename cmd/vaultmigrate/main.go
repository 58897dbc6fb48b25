// Package main provides the vaultmigrate binary entry point.
// Vaultmigrate moves a Fedora-backed digital library into a ResearchSpace
// triplestore and keeps an Omeka S site in sync with it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "vaultmigrate"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Digital library migration tool",
		Long: `Vaultmigrate migrates a Fedora repository into a ResearchSpace
triplestore and synchronizes the result into Omeka S.

The migration runs in four phases:
- harvest: crawl the repository, transform triples, write chunked output
- push: execute the generated update files against the triplestore
- download: fetch the binaries the harvest discovered and convert them
- sync: query the triplestore and upsert items with media into Omeka S

Each phase can run on its own; "run" executes all four in order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")

	makeApp := func() (*app, error) {
		return newApp(configPath, logLevel, metricsAddr)
	}

	cmd.AddCommand(
		harvestCmd(makeApp),
		pushCmd(makeApp),
		downloadCmd(makeApp),
		syncCmd(makeApp),
		runCmd(makeApp),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
