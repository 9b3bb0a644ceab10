package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-admin/internal/bundle"
	"github.com/noah-isme/toko-admin/internal/catalog"
	"github.com/noah-isme/toko-admin/internal/config"
	"github.com/noah-isme/toko-admin/internal/health"
	"github.com/noah-isme/toko-admin/internal/obs"
	"github.com/noah-isme/toko-admin/internal/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   "toko-admin",
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      cfg.TracingExporter,
			SamplingRatio: cfg.TracingSampleRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	var (
		httpMetrics   *obs.HTTPMetrics
		engineMetrics *obs.EngineMetrics
	)
	if cfg.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), prometheus.DefaultRegisterer)
		engineMetrics = obs.NewEngineMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	}

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Enums: catalog.Enums{
			Statuses:          cfg.Statuses,
			CourseCategories:  cfg.CourseCategories,
			ProductCategories: cfg.ProductCategories,
		},
		Logger:  logger,
		Metrics: engineMetrics,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}

	var (
		checker health.Checker
		breaker *resilience.Breaker
	)
	if redisClient != nil {
		checker = health.RedisChecker{Client: redisClient}
		var breakerMetrics *resilience.Metrics
		if cfg.MetricsEnabled {
			breakerMetrics = resilience.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
		}
		breaker = resilience.NewBreaker(resilience.BreakerConfig{
			Target:       "redis",
			MinCalls:     5,
			FailureRatio: 0.5,
			OpenFor:      envDurationMillis("RATE_LIMIT_BREAKER_OPEN_MS", 30000),
			Logger:       logger,
			Metrics:      breakerMetrics,
		})
	}

	handler := newRouter(routerDeps{
		Config:  cfg,
		Logger:  logger,
		Tracing: tracingEnabled,
		HTTP:    httpMetrics,
		Redis:   redisClient,
		Breaker: breaker,
		Health: health.Handler{
			Checker:      checker,
			RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
		},
		Catalog: catalog.NewHandler(catalog.HandlerConfig{Service: catalogService}),
		Bundles: bundle.NewHandler(bundle.HandlerConfig{
			MinItems: cfg.BundleMinItems,
			Logger:   logger,
			Metrics:  engineMetrics,
		}),
		Pprof:     envBool("OBS_ENABLE_PPROF", false),
		PprofUser: envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", ""),
		PprofPass: envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", ""),
		HSTS:      envBool("SECURE_ENABLE_HSTS", cfg.AppEnv == "production"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		health.SetReady(false)
		logger.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), envDurationMillis("SHUTDOWN_TIMEOUT_MS", 10000))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

// connectRedis returns nil when REDIS_URL is unset. Rate limits are then kept
// in process memory.
func connectRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) redis.UniversalClient {
	if cfg.RedisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, using in-memory rate limiter")
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if cfg.MetricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return time.Duration(parsed) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
