package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "SentimentPulse/pkg/http"
	applogger "SentimentPulse/pkg/logger"
)

// Pruner drops idle per-client state. Implemented by the rate limiter.
type Pruner interface {
	Prune() int
}

// App encapsulates the entire application lifecycle.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
	pruner     Pruner
	pruneEvery time.Duration
}

// New creates a new App instance.
func New(l *applogger.Logger, httpServer *xhttp.Server) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		logger:     l,
		httpServer: httpServer,
		pruneEvery: time.Minute,
	}
}

// SetPruner enables periodic pruning, e.g. of rate limiter buckets.
func (a *App) SetPruner(p Pruner, every time.Duration) {
	a.pruner = p
	if every > 0 {
		a.pruneEvery = every
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.pruner != nil {
		go a.prune(ctx)
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) prune(ctx context.Context) {
	t := time.NewTicker(a.pruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.pruner.Prune(); n > 0 {
				a.logger.Debug("pruned idle clients", applogger.Int("count", n))
			}
		}
	}
}

// shutdown gracefully stops the HTTP server. Infrastructure is released by the
// cleanup func returned from the injector.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
