package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"worktracker/internal/amqp"
	"worktracker/internal/auth"
	"worktracker/internal/auth/google"
	"worktracker/internal/config"
	apphttp "worktracker/internal/http"
	"worktracker/internal/ledger"
	"worktracker/internal/log"
	"worktracker/internal/store"
	"worktracker/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Start the JSON API server. When AMQP_URL and SYNC_TARGET_URL are set,
a sync worker runs alongside the server and mirrors entry changes to the
target.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logger := log.New(log.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	logger.Info("Store initialized", log.FieldBackend, cfg.DataBackend)

	var (
		events *amqp.Client
		opts   []ledger.Option
	)
	if cfg.SyncEnabled() {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("connect amqp: %w", err)
		}
		defer events.Close()
		opts = append(opts, ledger.WithPublisher(events))
		logger.Info("Entry sync enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Entry sync disabled - AMQP_URL or SYNC_TARGET_URL not set")
	}

	repo, err := ledger.New(ctx, res.Store, opts...)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	sessions, err := auth.NewSessionStore(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	var remote auth.RemoteAuthenticator
	if cfg.GoogleIdentityAPIKey != "" {
		g, err := google.New(ctx, cfg.GoogleIdentityAPIKey)
		if err != nil {
			return fmt.Errorf("init remote auth: %w", err)
		}
		remote = g
		logger.Info("Remote authentication enabled")
	} else {
		logger.Info("Remote authentication disabled - no GOOGLE_IDENTITY_API_KEY provided")
	}

	orch := auth.New(remote, repo, sessions)
	api := apphttp.NewServer(repo, orch, logger)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting worktracker server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if events != nil {
		sw := worker.NewSyncWorker(events, repo, cfg.SyncTargetURL)
		g.Go(func() error {
			if err := sw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("sync worker: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
