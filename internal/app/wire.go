package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knowbargain/kbargain/internal/auth"
	"github.com/knowbargain/kbargain/internal/config"
	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/engage"
	"github.com/knowbargain/kbargain/internal/feed"
	"github.com/knowbargain/kbargain/internal/notify"
	"github.com/knowbargain/kbargain/internal/platform/knowbargain"
	"github.com/knowbargain/kbargain/internal/price"
	"github.com/knowbargain/kbargain/internal/session"
	"github.com/knowbargain/kbargain/internal/thread"
)

// Dependencies bundles everything the application modes need to operate.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Gateway  domain.Gateway
	Session  *session.Session
	Store    *engage.Store
	Prices   *price.Tracker
	Comments *thread.Synchronizer
	Loader   *feed.Loader
	Auth     *auth.Service
	Notifier *notify.Notifier
}

// tokenPath resolves the on-disk location of the session token file,
// defaulting to the user config directory when unset.
func tokenPath(cfg *config.Config) (string, error) {
	if cfg.Session.TokenPath != "" {
		return cfg.Session.TokenPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("app: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "kbargain", "token"), nil
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them with a cleanup function for shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	path, err := tokenPath(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	sess, err := session.Open(path, cfg.Session.Passphrase)
	if err != nil {
		return nil, cleanup, fmt.Errorf("app: open session: %w", err)
	}

	gateway := knowbargain.NewClient(cfg.API.BaseURL, sess, cfg.API.Timeout.Duration)

	store := engage.NewStore(gateway, logger)
	prices := price.NewTracker(gateway, logger)
	comments := thread.NewSynchronizer(gateway, logger)
	loader := feed.NewLoader(gateway, store, prices, comments, logger)
	authSvc := auth.NewService(gateway, sess, logger)

	deps := &Dependencies{
		Gateway:  gateway,
		Session:  sess,
		Store:    store,
		Prices:   prices,
		Comments: comments,
		Loader:   loader,
		Auth:     authSvc,
	}

	// Notification channels (only meaningful for watch mode).
	var senders []notify.Sender
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.TelegramToken != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
		logger.InfoContext(ctx, "notifications enabled",
			slog.Int("channels", len(senders)),
		)
	}

	return deps, cleanup, nil
}
