// The worker runs the recurring-transaction sweep on a cron schedule,
// writing directly to the database. It is safe to run alongside
// client-triggered materialization: the engine is idempotent per
// (definition, date) and checkpoints only move forward.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"bucketeer/internal/config"
	"bucketeer/internal/database"
	"bucketeer/internal/logger"
	"bucketeer/internal/recurrence"
	"bucketeer/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	recurringService := services.NewRecurringService(dbManager.DB())

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		asOf := recurrence.DateOnly(time.Now())
		result, err := recurringService.MaterializeDue(ctx, asOf)
		if err != nil {
			log.Errorw("sweep aborted", "error", err)
			return
		}
		log.Infow("sweep completed",
			"as_of", asOf.Format("2006-01-02"),
			"created", len(result.Created),
			"checkpoints", len(result.Checkpoints),
			"failures", len(result.Failures))
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepSchedule, sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", cfg.SweepSchedule, err)
	}

	// One sweep at startup so a worker that was down over a due date
	// catches up immediately instead of waiting for the next tick.
	sweep()

	c.Start()
	log.Infof("Recurrence worker started, schedule %q", cfg.SweepSchedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down recurrence worker")
	<-c.Stop().Done()
	return nil
}
