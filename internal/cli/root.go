// Package cli holds the cobra command tree for the worktracker binary.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"worktracker/internal/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "worktracker",
	Short: "Local-first work ledger with role-scoped access",
	Long: `worktracker keeps a durable snapshot of users and work entries,
serves them over a JSON API with role-scoped visibility, and can mirror
entry changes to a remote target through a message queue.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file for local development (ignore errors in production/docker)
		_ = godotenv.Load()

		config := log.DefaultConfig()
		if verbose {
			config.Level = slog.LevelDebug
		}
		log.SetDefault(log.New(config))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
