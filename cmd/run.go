package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"betboard/api"
	"betboard/config"
	"betboard/database"
	"betboard/events"
	"betboard/metrics"
	"betboard/repository"
	"betboard/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the HTTP API, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting betboard...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.ValidateSchema(ctx); err != nil {
		return fmt.Errorf("database schema is not ready, run 'betboard migrate up': %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus and its subscribers
	eventBus := events.NewBus()
	metrics.RegisterLedgerMetrics(eventBus)

	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Drain()

		events.NewNATSForwarder(nc, cfg.NATSSubjectPrefix).Attach(eventBus)
		log.WithFields(log.Fields{
			"url":    cfg.NATSURL,
			"prefix": cfg.NATSSubjectPrefix,
		}).Info("Forwarding ledger events to NATS")
	}

	// Initialize unit of work factory and services
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	accountService := service.NewAccountService(uowFactory, cfg.StartingBalance)
	betService := service.NewBetService(uowFactory, cfg.ChallengeMinRaise)
	engagementService := service.NewEngagementService(uowFactory)
	queryService := service.NewQueryService(uowFactory)

	handler := api.NewHandler(accountService, betService, engagementService, queryService)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	// Give in-flight requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown timed out")
	}

	// Let subscribers finish handling committed events before the pool closes
	eventBus.Wait()

	log.Info("Shutdown completed")
	return nil
}
