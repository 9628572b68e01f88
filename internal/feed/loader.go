package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/engage"
	"github.com/knowbargain/kbargain/internal/price"
	"github.com/knowbargain/kbargain/internal/thread"
)

// Loader fetches deal data and seeds the engagement store and price tracker
// so composed views start from server truth.
type Loader struct {
	gw       domain.Gateway
	store    *engage.Store
	prices   *price.Tracker
	comments *thread.Synchronizer
	logger   *slog.Logger
}

// NewLoader wires a Loader from its collaborators.
func NewLoader(gw domain.Gateway, store *engage.Store, prices *price.Tracker, comments *thread.Synchronizer, logger *slog.Logger) *Loader {
	return &Loader{
		gw:       gw,
		store:    store,
		prices:   prices,
		comments: comments,
		logger:   logger.With(slog.String("component", "feed")),
	}
}

// LoadFeed fetches the full deal list and, when a session exists, the saved
// set, in parallel. Both results seed the engagement store. The deals come
// back in server order. An unauthenticated saved-deals response is not an
// error; the saved set is simply empty.
func (l *Loader) LoadFeed(ctx context.Context) ([]domain.Deal, error) {
	var (
		deals []domain.Deal
		saved []domain.Deal
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deals, err = l.gw.ListDeals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = l.gw.SavedDeals(ctx)
		if errors.Is(err, domain.ErrAuthRequired) {
			saved = nil
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("feed: load: %w", err)
	}

	now := time.Now()
	for _, d := range deals {
		l.store.Seed(d)
		l.prices.Record(d.ID, d.Price, now)
	}
	for _, d := range saved {
		l.store.MarkSaved(d.ID, true)
	}

	l.logger.DebugContext(ctx, "feed loaded",
		slog.Int("deals", len(deals)),
		slog.Int("saved", len(saved)),
	)
	return deals, nil
}

// LoadSaved fetches the saved-deals list and marks the saved flags.
func (l *Loader) LoadSaved(ctx context.Context) ([]domain.Deal, error) {
	saved, err := l.gw.SavedDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: load saved: %w", err)
	}
	for _, d := range saved {
		l.store.Seed(d)
		l.store.MarkSaved(d.ID, true)
	}
	return saved, nil
}

// LoadDetail fetches everything the detail view needs for one deal: the
// deal record, its comment thread, and its price history, in parallel.
func (l *Loader) LoadDetail(ctx context.Context, dealID int64) (domain.Deal, error) {
	var deal domain.Deal

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deal, err = l.gw.GetDeal(ctx, dealID)
		return err
	})
	g.Go(func() error {
		return l.comments.Refresh(ctx, dealID)
	})
	g.Go(func() error {
		return l.prices.Sync(ctx, dealID)
	})
	if err := g.Wait(); err != nil {
		return domain.Deal{}, fmt.Errorf("feed: load detail for deal %d: %w", dealID, err)
	}

	l.store.Seed(deal)
	return deal, nil
}
