package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/khata/internal/config"
	"github.com/sebuszqo/khata/internal/database"
	"github.com/sebuszqo/khata/internal/ledger/application"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Load configuration, apply pending migrations and serve the JSON API.
The balance reconciler runs on the configured cron schedule until the
process receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("missing configuration, update to start server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
}

// openDatabase connects and brings the schema up to date.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DBService, error) {
	dbService, err := database.NewDBService(cfg.Database.Driver, cfg.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}
	if err := dbService.RunMigrations(ctx); err != nil {
		dbService.Close()
		return nil, err
	}
	return dbService, nil
}

func runServer(ctx context.Context, cfg *config.Config) error {
	dbService, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbService.Close()

	server := NewServer(cfg, dbService)
	g, gctx := errgroup.WithContext(ctx)

	scheduler, err := StartReconcileScheduler(gctx, cfg.ReconcileSchedule, server.reconciler)
	if err != nil {
		return fmt.Errorf("scheduler didn't start: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(server.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("Server starting on %s...", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		// running reconciles see gctx cancelled; wait for them before the database closes
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			log.Println("[Reconciler] shutdown timed out waiting for running reconcile")
		}
		return err
	})

	return g.Wait()
}

// StartReconcileScheduler runs the reconciler on schedule. Each run uses ctx,
// so cancelling it aborts a reconcile in progress.
func StartReconcileScheduler(ctx context.Context, schedule string, reconciler *application.BalanceReconciler) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, reconcileJob(ctx, reconciler))
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func reconcileJob(ctx context.Context, reconciler *application.BalanceReconciler) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		updated, err := reconciler.ReconcileAll(ctx)
		if err != nil {
			log.Printf("[Reconciler] error reconciling balances: %v", err)
			return
		}
		log.Printf("[Reconciler] balances reconciled, %d updated", updated)
	}
}
