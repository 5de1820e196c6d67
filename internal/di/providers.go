package di

import (
	"context"
	"fmt"
	"io"

	"SentimentPulse/internal/domain/repository"
	"SentimentPulse/internal/handler/api"
	mid "SentimentPulse/internal/middleware"
	internalrepo "SentimentPulse/internal/repository"
	icache "SentimentPulse/internal/service/cache"
	"SentimentPulse/internal/service/ratelimit"
	"SentimentPulse/internal/usecase"
	"SentimentPulse/pkg/config"
	xhttp "SentimentPulse/pkg/http"
	"SentimentPulse/pkg/http/middleware"
	pkgkafka "SentimentPulse/pkg/kafka"
	applogger "SentimentPulse/pkg/logger"
	"SentimentPulse/pkg/metrics"
	"SentimentPulse/pkg/server"

	"github.com/labstack/echo/v4"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "sentimentpulse",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or nil when metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(nil)
}

// ProvideResultProvider returns the fixed result set source.
func ProvideResultProvider() repository.ResultProvider {
	return usecase.StaticResults{}
}

// ProvideDisplayTrigger creates the analysis use case.
func ProvideDisplayTrigger(results repository.ResultProvider, m repository.Metrics) *usecase.DisplayTrigger {
	return usecase.NewDisplayTrigger(results, m)
}

// ProvideBytesCache creates the rendered page cache. Returns nil for backend "none".
func ProvideBytesCache(cfg *config.Config, l *applogger.Logger) (icache.BytesCache, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := icache.NewRedisCache(context.Background(),
			icache.WithRedisAddr(cfg.Cache.Redis.Addr),
			icache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			icache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
			icache.WithRedisConnectTimeout(cfg.Cache.Redis.ConnectTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		l.Info("redis cache connected", applogger.String("addr", cfg.Cache.Redis.Addr))
		return c, closeLogged(l, "cache", c), nil
	case "memory":
		c := icache.NewTTLCache()
		return c, closeLogged(l, "cache", c), nil
	default:
		return nil, func() {}, nil
	}
}

// ProvideRunPublisher creates the buffered Kafka run publisher, or a no-op one when events are disabled.
func ProvideRunPublisher(cfg *config.Config, l *applogger.Logger, m repository.Metrics) (repository.RunPublisher, func(), error) {
	if !cfg.Events.Enabled {
		return internalrepo.NoopRunPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithTopic(cfg.Events.Topic),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(*cfg.Events.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Events.WriteTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka producer ready", applogger.Strings("brokers", cfg.Events.Brokers), applogger.String("topic", cfg.Events.Topic), applogger.Bool("async", cfg.Events.Async))
	pipe := mid.NewRunPipeline(internalrepo.NewKafkaRunPublisher(producer), m)
	pipe.Start(context.Background())
	return pipe, closeLogged(l, "run publisher", pipe), nil
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// ProvideAnalysisHandler creates the HTTP handler with its optional cache and limiter.
func ProvideAnalysisHandler(
	cfg *config.Config,
	l *applogger.Logger,
	trigger *usecase.DisplayTrigger,
	runs repository.RunPublisher,
	cache icache.BytesCache,
	limiter *ratelimit.Limiter,
) *api.AnalysisHandler {
	h := api.NewAnalysisHandler(l, trigger, runs)
	if cache != nil {
		h.SetCache(cache, cfg.Cache.TTL)
	}
	if limiter != nil {
		h.SetRateLimit(middleware.RateLimit(limiter, l, func(c echo.Context) error {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
		}))
	}
	return h
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.AnalysisHandler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
		xhttp.WithBodyLimit(cfg.Server.MaxUploadBytes),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server, limiter *ratelimit.Limiter) *server.App {
	app := server.New(l, srv)
	if limiter != nil {
		app.SetPruner(limiter, 0)
	}
	return app
}

func closeLogged(l *applogger.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			l.Warn("close error", applogger.String("resource", name), applogger.Error(err))
		}
	}
}
