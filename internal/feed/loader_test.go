package feed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/engage"
	"github.com/knowbargain/kbargain/internal/price"
	"github.com/knowbargain/kbargain/internal/thread"
)

type fakeGateway struct {
	domain.Gateway
	deals    []domain.Deal
	saved    []domain.Deal
	savedErr error
	comments []domain.Comment
	history  []domain.PricePoint
}

func (f *fakeGateway) ListDeals(_ context.Context) ([]domain.Deal, error) {
	return f.deals, nil
}

func (f *fakeGateway) SavedDeals(_ context.Context) ([]domain.Deal, error) {
	if f.savedErr != nil {
		return nil, f.savedErr
	}
	return f.saved, nil
}

func (f *fakeGateway) GetDeal(_ context.Context, dealID int64) (domain.Deal, error) {
	for _, d := range f.deals {
		if d.ID == dealID {
			return d, nil
		}
	}
	return domain.Deal{}, &domain.APIError{Status: 404, Message: "Deal not found"}
}

func (f *fakeGateway) ListComments(_ context.Context, _ int64) ([]domain.Comment, error) {
	return f.comments, nil
}

func (f *fakeGateway) PriceHistory(_ context.Context, _ int64) ([]domain.PricePoint, error) {
	return f.history, nil
}

func newLoader(gw domain.Gateway) (*Loader, *engage.Store, *price.Tracker, *thread.Synchronizer) {
	logger := slog.New(slog.DiscardHandler)
	store := engage.NewStore(gw, logger)
	prices := price.NewTracker(gw, logger)
	comments := thread.NewSynchronizer(gw, logger)
	return NewLoader(gw, store, prices, comments, logger), store, prices, comments
}

func TestLoadFeedSeedsEngagement(t *testing.T) {
	gw := &fakeGateway{
		deals: []domain.Deal{
			{ID: 1, Score: 4},
			{ID: 2, Score: 7},
		},
		saved: []domain.Deal{{ID: 2}},
	}
	l, store, _, _ := newLoader(gw)

	deals, err := l.LoadFeed(t.Context())
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if len(deals) != 2 {
		t.Fatalf("got %d deals, want 2", len(deals))
	}

	eng, ok := store.Get(2)
	if !ok || !eng.Saved || eng.DisplayedScore != 7 {
		t.Errorf("deal 2 engagement = %+v, want saved with score 7", eng)
	}
	eng, _ = store.Get(1)
	if eng.Saved {
		t.Error("deal 1 marked saved without being in the saved set")
	}
}

func TestLoadFeedToleratesUnauthenticatedSaved(t *testing.T) {
	gw := &fakeGateway{
		deals:    []domain.Deal{{ID: 1}},
		savedErr: &domain.APIError{Status: 401, Message: "Missing token"},
	}
	l, _, _, _ := newLoader(gw)

	deals, err := l.LoadFeed(t.Context())
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if len(deals) != 1 {
		t.Errorf("got %d deals, want 1", len(deals))
	}
}

func TestLoadDetailPopulatesAllStores(t *testing.T) {
	ts := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		deals:    []domain.Deal{{ID: 3, Score: 12, Price: 249}},
		comments: []domain.Comment{{ID: 1, Author: "alice", Content: "hot"}},
		history: []domain.PricePoint{
			{Price: 299, Timestamp: ts},
			{Price: 249, Timestamp: ts.Add(time.Hour)},
		},
	}
	l, store, prices, comments := newLoader(gw)

	deal, err := l.LoadDetail(t.Context(), 3)
	if err != nil {
		t.Fatalf("LoadDetail: %v", err)
	}
	if deal.ID != 3 {
		t.Errorf("deal.ID = %d, want 3", deal.ID)
	}

	if eng, ok := store.Get(3); !ok || eng.DisplayedScore != 12 {
		t.Errorf("engagement not seeded: %+v", eng)
	}
	if got := comments.Thread(3); len(got) != 1 {
		t.Errorf("thread has %d comments, want 1", len(got))
	}
	if cur, ok := prices.Current(3); !ok || cur != 249 {
		t.Errorf("Current = %v, %v; want 249", cur, ok)
	}
}
