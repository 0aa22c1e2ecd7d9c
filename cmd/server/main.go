package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/smartcart/backend/config"
	httpDelivery "github.com/smartcart/backend/internal/delivery/http"
	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/cache"
	"github.com/smartcart/backend/internal/infrastructure/gemini"
	"github.com/smartcart/backend/internal/infrastructure/logging"
	"github.com/smartcart/backend/internal/infrastructure/metrics"
	"github.com/smartcart/backend/internal/infrastructure/report"
	"github.com/smartcart/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", "1.0.0").
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting SmartCart backend")

	extractionCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.RequestsPerMinute, logger)
	if err != nil {
		return err
	}
	defer geminiClient.Close()

	if cfg.Server.Environment == "development" {
		geminiClient.SetDebug(true)
	}
	if geminiClient.Configured() {
		logger.Info().Str("model", cfg.Gemini.Model).Msg("Gemini extraction configured")
	} else {
		logger.Warn().Msg("Gemini API key NOT CONFIGURED (set SMARTCART_GEMINI_API_KEY) - photo analysis will fail")
	}

	m := metrics.New("smartcart", prometheus.DefaultRegisterer)

	session := usecase.NewSession()
	scanner := usecase.NewScanService(
		session,
		geminiClient,
		geminiClient,
		extractionCache,
		m,
		logger,
		usecase.ScanServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	handler := httpDelivery.NewHandler(session, scanner, report.NewPDFRenderer(), httpDelivery.HandlerOptions{
		Currency:             cfg.Cart.Currency,
		MaxUploadBytes:       cfg.Server.MaxUploadMB << 20,
		ExtractionConfigured: geminiClient.Configured(),
		Logger:               logger,
	})

	router := httpDelivery.SetupRouter(cfg, handler, httpDelivery.RouterOptions{
		Logger:   logger,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisURL, "smartcart:")
		if err != nil {
			return nil, nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	mc := cache.NewMemoryCache(10 * time.Minute)
	return mc, func() { _ = mc.Close() }, nil
}
