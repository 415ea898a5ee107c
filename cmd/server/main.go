/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workforce absence and coverage server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment (.env honored)
  2. Initialize store (SQLite when WORKFORCE_DB_PATH is set, in-memory
     otherwise)
  3. Wire workflows and API handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  WORKFORCE_DB_PATH=./data/workforce.db ./server

  # Run fully in memory
  ./server

  # Run on a different port
  WORKFORCE_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Environment configuration
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/admsmc/dykstra-funeral-website-sub009/api"
	"github.com/admsmc/dykstra-funeral-website-sub009/config"
	"github.com/admsmc/dykstra-funeral-website-sub009/store/memory"
	"github.com/admsmc/dykstra-funeral-website-sub009/store/sqlite"
	"github.com/admsmc/dykstra-funeral-website-sub009/workflow"
	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetLevel(cfg.ParseLogLevel())
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var (
		ptoStore      workforce.PtoManagementPort
		trainingStore workforce.TrainingManagementPort
		backfillStore workforce.BackfillManagementPort
	)
	if cfg.DatabasePath != "" {
		store, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		defer store.Close()
		ptoStore, trainingStore, backfillStore = store, store, store
		log.WithField("path", cfg.DatabasePath).Info("using sqlite store")
	} else {
		store := memory.New()
		ptoStore, trainingStore, backfillStore = store, store, store
		log.Info("using in-memory store")
	}

	wfConfig := workflow.Config{
		DefaultHourlyRate:  cfg.DefaultHourlyRate,
		MonthlyHourCeiling: cfg.MonthlyHourCeiling,
		HoursPerDay:        cfg.HoursPerDay,
		CoverageNeeded:     cfg.CoverageNeeded,
	}

	ptoWorkflow := workflow.NewPtoWorkflow(ptoStore, backfillStore, wfConfig, log)
	trainingWorkflow := workflow.NewTrainingWorkflow(trainingStore, backfillStore, wfConfig, log)
	backfillWorkflow := workflow.NewBackfillWorkflow(backfillStore, workforce.NoHolidays{}, wfConfig, log)

	handler := api.NewHandler(ptoWorkflow, trainingWorkflow, backfillWorkflow, wfConfig, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}
