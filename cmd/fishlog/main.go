// Package main provides the fishlog binary: a local fishing log with a
// command line front end and an optional JSON API (fishlog serve).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "fishlog"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand. Empty values
// fall back to the environment configuration.
type options struct {
	logLevel string
	dbPath   string
	memory   bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Local fishing log",
		Long: `fishlog keeps an inventory of fishing gear, a map of fishing spots,
a diary of outings and a log of catches in a local database.

Data can be exported to and restored from a JSON backup, and the current
weather for a place can be looked up. "fishlog serve" exposes the same
operations as a local JSON API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); default from LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Database path; default from FISHLOG_DB_PATH")
	cmd.PersistentFlags().BoolVar(&opts.memory, "memory", false, "Use a throwaway in-memory store")

	cmd.AddCommand(
		gearCmd(opts),
		spotCmd(opts),
		outingCmd(opts),
		catchCmd(opts),
		statsCmd(opts),
		techniquesCmd(),
		exportCmd(opts),
		importCmd(opts),
		weatherCmd(opts),
		settingsCmd(opts),
		serveCmd(opts),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
