package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchktools/fast-dispatch/config"
	"github.com/searchktools/fast-dispatch/core"
)

// App runs a dispatch server as a process: start, wait for a signal, stop.
type App struct {
	cfg    *config.Config
	server *core.Server
}

// New creates an application instance
func New(cfg *config.Config, opts ...core.Option) *App {
	return NewWithDispatcher(cfg, core.NewDispatcher(opts...))
}

// NewWithDispatcher creates an application instance around a pre-configured dispatcher
func NewWithDispatcher(cfg *config.Config, d *core.Dispatcher) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		cfg:    cfg,
		server: core.NewServer(cfg, d),
	}
}

// Dispatcher returns the dispatcher for route and middleware registration
func (a *App) Dispatcher() *core.Dispatcher {
	return a.server.Dispatcher()
}

// Server returns the underlying server
func (a *App) Server() *core.Server {
	return a.server
}

// Run starts the server and blocks until SIGINT or SIGTERM, then shuts down
// gracefully within the configured shutdown timeout.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with the shutdown trigger supplied by ctx
func (a *App) RunContext(ctx context.Context) error {
	logger := a.server.Logger()

	if _, err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("server startup failed: %w", err)
	}

	<-ctx.Done()
	logger("Shutdown requested: %v", context.Cause(ctx))

	shutdownCtx := context.Background()
	if a.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, a.cfg.ShutdownTimeout)
		defer cancel()
	}

	return a.server.Stop(shutdownCtx)
}
