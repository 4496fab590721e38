package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agencyops/occurrence-engine/internal/api"
	"github.com/agencyops/occurrence-engine/internal/baselines"
	"github.com/agencyops/occurrence-engine/internal/cache"
	"github.com/agencyops/occurrence-engine/internal/config"
	"github.com/agencyops/occurrence-engine/internal/metrics"
	"github.com/agencyops/occurrence-engine/internal/repo"
	"github.com/agencyops/occurrence-engine/internal/services"
	"github.com/agencyops/occurrence-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting occurrence-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider = cache.NewMemoryProvider()
	if cfg.Cache.Enabled && cfg.Cache.Addr != "" {
		provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{
			Addr:         cfg.Cache.Addr,
			Username:     cfg.Cache.Username,
			Password:     cfg.Cache.Password,
			DB:           cfg.Cache.DB,
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
			MaxRetries:   cfg.Cache.MaxRetries,
			TLS:          cfg.Cache.TLS,
		})
		if err != nil {
			logger.Warn("valkey cache unavailable, using in-memory cache", slog.Any("error", err))
		} else {
			cacheProvider = provider
		}
	}
	defer cacheProvider.Close()

	table := baselines.Default()
	if cfg.Baselines.Path != "" {
		loaded, err := baselines.Load(cfg.Baselines.Path)
		if err != nil {
			logger.Warn("baseline table unavailable, using defaults",
				slog.String("path", cfg.Baselines.Path), slog.Any("error", err))
		} else {
			table = loaded
		}
	}

	var source services.OccurrenceSource
	switch cfg.Source {
	case config.SourcePostgres:
		pg, err := repo.NewPostgresSource(cfg.Postgres.DSN)
		if err != nil {
			logger.Error("failed to open postgres source", slog.Any("error", err))
			os.Exit(1)
		}
		defer pg.Close()
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := pg.Ping(pingCtx); err != nil {
			logger.Error("postgres unreachable", slog.Any("error", err))
			cancelPing()
			os.Exit(1)
		}
		cancelPing()
		source = pg
	default:
		source = repo.NewFeedClient(
			cfg.Feed.BaseURL,
			cfg.Feed.Path,
			cfg.Feed.Timeout,
			cacheProvider,
			cfg.Cache.FeedTTL,
		)
	}

	service := services.NewDashboardService(logger, source, cacheProvider, table, cfg.Cache.ViewTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refreshCtx, cancelRefresh := context.WithTimeout(ctx, 30*time.Second)
	if err := service.Refresh(refreshCtx); err != nil {
		logger.Warn("initial snapshot fetch failed, serving 503 until a refresh succeeds", slog.Any("error", err))
	}
	cancelRefresh()
	go service.RunRefreshLoop(ctx, cfg.Feed.RefreshInterval)

	handler := api.NewHandler(logger, service)
	server := api.NewServer(cfg.Server, logger, handler)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("http server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", slog.Any("error", err))
	}

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("occurrence-engine stopped")
}
