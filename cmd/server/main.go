// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/worldpulse/internal/aggregate"
	"github.com/tomtom215/worldpulse/internal/api"
	"github.com/tomtom215/worldpulse/internal/cache"
	"github.com/tomtom215/worldpulse/internal/catalog"
	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/database"
	"github.com/tomtom215/worldpulse/internal/events"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
	"github.com/tomtom215/worldpulse/internal/reconcile"
	"github.com/tomtom215/worldpulse/internal/supervisor"
	"github.com/tomtom215/worldpulse/internal/supervisor/services"
	"github.com/tomtom215/worldpulse/internal/sync"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("WorldPulse exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("worldbank_url", cfg.WorldBank.BaseURL).
		Str("dashboard_country", cfg.Dashboard.Country).
		Msg("Starting WorldPulse with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	if err := seed(ctx, db, cfg, cat); err != nil {
		return err
	}

	fetcher := sync.NewFetcher(
		sync.NewWorldBankClient(&cfg.WorldBank),
		sync.NewHappinessClient(&cfg.Happiness, cat.NameOverrides, db),
	)

	bus := events.NewBus(nil)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}()
	recorder := events.NewRecorder(bus, db)

	reconciler := reconcile.NewService(db, fetcher, bus)
	engine := aggregate.NewEngine(db, reconciler, cfg.Dashboard.Indicators)

	handler := api.NewHandler(db, engine, reconciler, cfg)
	handler.SetBreakerReporter(fetcher)

	var charts *cache.Cache[models.ChartData]
	if cfg.Server.ChartCacheTTL > 0 {
		charts = cache.New[models.ChartData](cfg.Server.ChartCacheTTL).
			ObserveSize(func(size int) { metrics.ChartCacheEntries.Set(float64(size)) })
		defer charts.Close()
		handler.SetChartCache(charts)
	}
	router := api.NewRouter(handler, api.MiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddEventsService(recorder)
	refresher := &invalidatingRefresher{Refresher: reconciler, charts: charts}
	tree.AddIngestService(services.NewRefreshService(refresher, recorder, cfg.Sync, cfg.Happiness.Years))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

// seed loads the static catalog and, for demos, the sample happiness rows.
func seed(ctx context.Context, db *database.DB, cfg *config.Config, cat catalog.Catalog) error {
	if cfg.Database.SeedCatalog {
		if err := db.SeedCatalog(ctx, cat); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	if cfg.Database.SeedSampleData {
		logging.Info().Msg("Sample data seeding enabled (SEED_SAMPLE_DATA=true)")
		if err := db.SeedSampleHappiness(ctx, catalog.SampleHappiness()); err != nil {
			return fmt.Errorf("seed sample happiness: %w", err)
		}
	}
	return nil
}
