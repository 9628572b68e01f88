// Package app provides the top-level application lifecycle for the
// kbargain client. It wires together the gateway client, session, stores,
// and services, and starts the mode selected by configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knowbargain/kbargain/internal/config"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, selects the
// operating mode, and blocks until the mode returns or the context is
// cancelled. On return it runs all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting",
		slog.String("mode", a.cfg.Mode),
		slog.String("api", a.cfg.API.BaseURL),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch strings.ToLower(a.cfg.Mode) {
	case "browse":
		return a.BrowseMode(ctx, deps)
	case "watch":
		return a.WatchMode(ctx, deps)
	case "login":
		return a.LoginMode(ctx, deps)
	case "signup":
		return a.SignupMode(ctx, deps)
	case "logout":
		return a.LogoutMode(ctx, deps)
	case "stats":
		return a.StatsMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Safe to
// call multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
