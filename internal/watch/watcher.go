// Package watch polls the authenticated user's saved deals, feeds their
// prices into the history tracker, and raises alerts on price drops and
// status changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/notify"
	"github.com/knowbargain/kbargain/internal/price"
)

// Watcher is the headless price-watch loop. Each tick it lists the saved
// deals, records the observed prices, and compares against the previous
// observation to decide whether to alert.
type Watcher struct {
	gw       domain.Gateway
	prices   *price.Tracker
	notifier *notify.Notifier
	interval time.Duration
	// dropPct is the minimum relative drop (0.10 = 10%) that raises a
	// price_drop alert.
	dropPct float64
	// statusAlerts enables status_change alerts in addition to price drops.
	statusAlerts bool
	logger       *slog.Logger

	mu       sync.Mutex
	statuses map[int64]domain.DealStatus
}

// NewWatcher creates a Watcher polling at the given interval.
func NewWatcher(gw domain.Gateway, prices *price.Tracker, notifier *notify.Notifier, interval time.Duration, dropPct float64, statusAlerts bool, logger *slog.Logger) *Watcher {
	return &Watcher{
		gw:           gw,
		prices:       prices,
		notifier:     notifier,
		interval:     interval,
		dropPct:      dropPct,
		statusAlerts: statusAlerts,
		logger:       logger.With(slog.String("component", "watch")),
		statuses:     make(map[int64]domain.DealStatus),
	}
}

// Run polls until ctx is cancelled. A failing tick is logged and retried on
// the next interval; it never terminates the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "price watch started",
		slog.Duration("interval", w.interval),
		slog.Float64("drop_threshold", w.dropPct),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First pass immediately so restarts do not wait a full interval.
	if err := w.Tick(ctx); err != nil {
		w.logger.WarnContext(ctx, "watch tick failed", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				w.logger.WarnContext(ctx, "watch tick failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Tick performs one poll: fetch saved deals, compare each against its last
// observation, record the new price, and alert on drops and status flips.
func (w *Watcher) Tick(ctx context.Context) error {
	deals, err := w.gw.SavedDeals(ctx)
	if err != nil {
		return fmt.Errorf("watch: list saved deals: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, deal := range deals {
		g.Go(func() error {
			w.observe(ctx, deal)
			return nil
		})
	}
	return g.Wait()
}

func (w *Watcher) observe(ctx context.Context, deal domain.Deal) {
	now := time.Now()

	prev, seen := w.prices.Current(deal.ID)
	w.prices.Record(deal.ID, deal.Price, now)

	if seen && prev > 0 && deal.Price < prev {
		drop := (prev - deal.Price) / prev
		if drop >= w.dropPct {
			title := fmt.Sprintf("Price drop: %s", deal.Title)
			msg := fmt.Sprintf("%.2f -> %.2f (-%.0f%%)\n%s", prev, deal.Price, drop*100, deal.Link)
			if err := w.notifier.Notify(ctx, notify.EventPriceDrop, title, msg); err != nil {
				w.logger.WarnContext(ctx, "price drop alert failed",
					slog.Int64("deal_id", deal.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if !w.statusAlerts {
		return
	}

	w.mu.Lock()
	last, ok := w.statuses[deal.ID]
	w.statuses[deal.ID] = deal.Status
	w.mu.Unlock()

	if ok && last != deal.Status {
		title := fmt.Sprintf("Status change: %s", deal.Title)
		msg := fmt.Sprintf("%s -> %s", last, deal.Status)
		if err := w.notifier.Notify(ctx, notify.EventStatusChange, title, msg); err != nil {
			w.logger.WarnContext(ctx, "status change alert failed",
				slog.Int64("deal_id", deal.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}
