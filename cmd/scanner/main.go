package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/api"
	"github.com/TomMakinMPF/fifoinvestor/internal/collector"
	"github.com/TomMakinMPF/fifoinvestor/internal/config"
	"github.com/TomMakinMPF/fifoinvestor/internal/scanner"
	"github.com/TomMakinMPF/fifoinvestor/internal/scheduler"
	"github.com/TomMakinMPF/fifoinvestor/internal/store"
	"github.com/TomMakinMPF/fifoinvestor/internal/strategy"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Data source
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRestFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	logger.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	// Candle cache
	var cache store.Store
	if cfg.Cache.SQLitePath != "" {
		sqlStore, err := store.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			logger.Warn().Err(err).Msg("open candle cache failed, caching disabled")
			cache = store.NewNoopStore()
		} else {
			cache = sqlStore
			defer sqlStore.Close()
			logger.Info().Str("path", cfg.Cache.SQLitePath).Msg("candle cache opened")
		}
	} else {
		cache = store.NewNoopStore()
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	fetcher = collector.NewCachedFetcher(fetcher, cache, ttl, logger)

	// Display filters: price floors per market group
	filters := make(map[string]strategy.RowFilter, len(cfg.Scan.MinClose))
	for group, floor := range cfg.Scan.MinClose {
		filters[group] = strategy.MinCloseFilter(floor)
	}

	sc := scanner.New(fetcher, cfg.Params(), filters, cfg.Scan.Workers, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monthly scheduled scan
	sched := scheduler.New(ctx, sc, cfg.Tickers.Dir, cfg.Tickers.DefaultGroups, cfg.Output.Dir, logger)
	if err := sched.Register(cfg.Schedule.MonthlyCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	server := api.NewServer(cfg.API.Addr, sc, cfg.Tickers.Dir, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("api server stopped")
			cancel()
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing monthly scan now")
		go sched.RunNow()
	}

	logger.Info().Msg("scanner is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api shutdown")
	}
}
