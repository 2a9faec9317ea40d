// Package main is the entry point for the cryptofolio server: a
// simulated portfolio tracker over live crypto market data.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avgerin0s/cryptofolio/internal/clients/coingecko"
	"github.com/avgerin0s/cryptofolio/internal/config"
	"github.com/avgerin0s/cryptofolio/internal/database"
	"github.com/avgerin0s/cryptofolio/internal/modules/charts"
	chartshandlers "github.com/avgerin0s/cryptofolio/internal/modules/charts/handlers"
	"github.com/avgerin0s/cryptofolio/internal/modules/ledger"
	ledgerhandlers "github.com/avgerin0s/cryptofolio/internal/modules/ledger/handlers"
	"github.com/avgerin0s/cryptofolio/internal/modules/market"
	markethandlers "github.com/avgerin0s/cryptofolio/internal/modules/market/handlers"
	"github.com/avgerin0s/cryptofolio/internal/notify"
	"github.com/avgerin0s/cryptofolio/internal/scheduler"
	"github.com/avgerin0s/cryptofolio/internal/server"
	"github.com/avgerin0s/cryptofolio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("database", cfg.DatabasePath).
		Msg("Starting cryptofolio")

	// Storage
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Notifications
	hub := notify.NewHub(log)

	// Position ledger, persisted through the key-value store
	kv := database.NewKVRepository(db.Conn(), log)
	ledgerRepo := ledger.NewRepository(kv, log)
	ledgerService := ledger.NewService(ledgerRepo, hub, log)

	// Market data
	geckoClient := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, log)
	snapshotCache := market.NewCacheRepository(db.Conn(), log)
	marketService := market.NewService(geckoClient, snapshotCache, cfg.MarketPageSize, cfg.PopularAssetCount, log)

	// Charts
	chartsService := charts.NewService(log)

	// Background jobs
	sched := scheduler.New(log)
	refreshJob := scheduler.NewSnapshotRefreshJob(marketService, log)
	if err := sched.AddJob(cfg.SnapshotRefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Warm the snapshot cache so the first request doesn't pay for it.
	// A failure here is not fatal; read paths fetch on demand.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		if err := marketService.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial snapshot refresh failed")
		}
	}()

	// HTTP server
	srv := server.New(
		server.Config{
			Port:    cfg.Port,
			Log:     log,
			DevMode: cfg.DevMode,
		},
		ledgerhandlers.NewHandler(ledgerService, log),
		markethandlers.NewHandler(marketService, ledgerService, log),
		chartshandlers.NewHandler(chartsService, geckoClient, marketService, log),
		hub,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}

	log.Info().Msg("Goodbye")
}
