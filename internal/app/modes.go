package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/feed"
	"github.com/knowbargain/kbargain/internal/tui"
	"github.com/knowbargain/kbargain/internal/watch"
)

// BrowseMode runs the interactive terminal browser until the user quits or
// the context is cancelled.
func (a *App) BrowseMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting browse mode",
		slog.Bool("authenticated", deps.Session.Authenticated()),
	)

	model := tui.NewModel(tui.Deps{
		Loader:   deps.Loader,
		Store:    deps.Store,
		Comments: deps.Comments,
		Prices:   deps.Prices,
		Logger:   a.logger,
		Category: a.cfg.UI.Category,
		Sort:     feed.SortKey(a.cfg.UI.Sort),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("app: browse: %w", err)
	}
	return nil
}

// WatchMode polls the user's saved deals on an interval and sends price
// drop and status change alerts through the configured channels. Blocks
// until the context is cancelled.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	if !deps.Session.Authenticated() {
		return fmt.Errorf("app: watch mode needs a logged-in session, run login first: %w", domain.ErrAuthRequired)
	}
	if deps.Notifier == nil {
		return fmt.Errorf("app: watch mode needs at least one notify channel configured")
	}

	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", a.cfg.Watch.Interval.Duration),
		slog.Float64("drop_percent", a.cfg.Watch.DropPercent),
	)

	watcher := watch.NewWatcher(
		deps.Gateway,
		deps.Prices,
		deps.Notifier,
		a.cfg.Watch.Interval.Duration,
		a.cfg.Watch.DropPercent,
		a.cfg.Watch.StatusAlerts,
		a.logger,
	)
	return watcher.Run(ctx)
}

// LoginMode prompts for credentials on the terminal, authenticates, and
// persists the session token.
func (a *App) LoginMode(ctx context.Context, deps *Dependencies) error {
	email, err := promptLine("Email: ")
	if err != nil {
		return fmt.Errorf("app: read email: %w", err)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("app: read password: %w", err)
	}

	if err := deps.Auth.Login(ctx, email, password); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		return err
	}

	user, err := deps.Auth.Me(ctx)
	if err != nil {
		// The token is stored; a failed profile fetch is not fatal.
		a.logger.WarnContext(ctx, "profile fetch after login failed", slog.Any("error", err))
		fmt.Println("logged in")
		return nil
	}
	fmt.Printf("logged in as %s\n", user.Username)
	return nil
}

// SignupMode prompts for registration details, creates the account, and
// persists the session token.
func (a *App) SignupMode(ctx context.Context, deps *Dependencies) error {
	username, err := promptLine("Username: ")
	if err != nil {
		return fmt.Errorf("app: read username: %w", err)
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return fmt.Errorf("app: read email: %w", err)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("app: read password: %w", err)
	}

	if err := deps.Auth.Signup(ctx, username, email, password); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		return err
	}
	fmt.Printf("account created, logged in as %s\n", username)
	return nil
}

// LogoutMode clears the stored session token.
func (a *App) LogoutMode(ctx context.Context, deps *Dependencies) error {
	if !deps.Session.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	if err := deps.Auth.Logout(); err != nil {
		return fmt.Errorf("app: logout: %w", err)
	}
	fmt.Println("logged out")
	return nil
}

// StatsMode prints the logged-in user's profile and activity counters.
func (a *App) StatsMode(ctx context.Context, deps *Dependencies) error {
	user, err := deps.Auth.Me(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		return err
	}
	stats, err := deps.Auth.Stats(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		return err
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	fmt.Printf("  deals posted:  %d\n", stats.Deals)
	fmt.Printf("  comments:      %d\n", stats.Comments)
	fmt.Printf("  karma:         %d\n", stats.Karma)
	fmt.Printf("  saved deals:   %d\n", stats.Saved)
	return nil
}

// promptLine reads a single trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it. Falls back to a
// plain line read when stdin is not a terminal (piped input in tests and
// scripts).
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(prompt)
	}
	fmt.Print(prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
