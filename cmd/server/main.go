// Package main implements the entry point for the parcel API server, which
// records parcels, their payments and their delivery history.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand serves the API.
func newRootCmd() *cobra.Command {
	serve := serveCmd()

	root := &cobra.Command{
		Use:           "parcel-server",
		Short:         "Parcel delivery API server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := initializeApp(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version]",
		Short: "Apply or inspect database migrations",
		Long: `Run schema migrations against the configured database.

With the postgres driver this runs the embedded goose migrations.
With the mongo driver it creates the collection indexes; only "up" applies.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrations(cmd.Context(), command)
		},
	}
}
