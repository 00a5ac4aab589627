package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"worktracker/internal/config"
	"worktracker/internal/ledger"
	"worktracker/internal/log"
	"worktracker/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the snapshot to the seed dataset",
	Long: `Overwrite the configured snapshot with the seed dataset. Any saved
users and entries are lost.`,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	res, err := store.Open(store.Config{
		Backend:      store.Backend(cfg.DataBackend),
		SnapshotPath: cfg.SnapshotPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
		SnapshotKey:  cfg.SnapshotKey,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}

	ctx := cmd.Context()
	repo, err := ledger.New(ctx, res.Store)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if err := repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	log.New(log.DefaultConfig()).Info("Snapshot reset to seed",
		log.FieldBackend, cfg.DataBackend)
	return nil
}
