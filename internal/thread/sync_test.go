package thread

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

type fakeGateway struct {
	domain.Gateway
	postFn    func(ctx context.Context, dealID int64, content string) error
	listFn    func(ctx context.Context, dealID int64) ([]domain.Comment, error)
	postCalls int
	listCalls int
}

func (f *fakeGateway) PostComment(ctx context.Context, dealID int64, content string) error {
	f.postCalls++
	return f.postFn(ctx, dealID, content)
}

func (f *fakeGateway) ListComments(ctx context.Context, dealID int64) ([]domain.Comment, error) {
	f.listCalls++
	return f.listFn(ctx, dealID)
}

func newSync(gw domain.Gateway) *Synchronizer {
	return NewSynchronizer(gw, slog.New(slog.DiscardHandler))
}

func TestPostEmptyContentNeverHitsNetwork(t *testing.T) {
	gw := &fakeGateway{}
	s := newSync(gw)

	for _, content := range []string{"", "   ", "\n\t "} {
		err := s.Post(t.Context(), 1, content)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Post(%q) err = %v, want ErrValidation", content, err)
		}
	}
	if gw.postCalls != 0 || gw.listCalls != 0 {
		t.Errorf("network calls issued for empty content: post=%d list=%d", gw.postCalls, gw.listCalls)
	}
}

func TestPostRefetchesThread(t *testing.T) {
	serverThread := []domain.Comment{
		{ID: 2, Author: "bob", Content: "nice find", CreatedAt: time.Now()},
		{ID: 1, Author: "alice", Content: "first", CreatedAt: time.Now().Add(-time.Hour)},
	}
	gw := &fakeGateway{
		postFn: func(_ context.Context, _ int64, _ string) error { return nil },
		listFn: func(_ context.Context, _ int64) ([]domain.Comment, error) {
			return serverThread, nil
		},
	}
	s := newSync(gw)

	if err := s.Post(t.Context(), 5, "nice find"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gw.listCalls != 1 {
		t.Errorf("listCalls = %d, want 1 (re-fetch after post)", gw.listCalls)
	}

	// Server order preserved verbatim, no client-side re-sort.
	got := s.Thread(5)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("thread = %+v, want server order [2 1]", got)
	}
}

func TestPostFailurePropagatesWithoutRefresh(t *testing.T) {
	gw := &fakeGateway{
		postFn: func(_ context.Context, _ int64, _ string) error {
			return &domain.APIError{Status: 401, Message: "Missing token"}
		},
	}
	s := newSync(gw)

	err := s.Post(t.Context(), 5, "hello")
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired in chain", err)
	}
	if gw.listCalls != 0 {
		t.Error("thread re-fetched despite failed post")
	}
	if s.Thread(5) != nil {
		t.Error("failed post populated the thread cache")
	}
}

func TestThreadReturnsCopy(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(_ context.Context, _ int64) ([]domain.Comment, error) {
			return []domain.Comment{{ID: 1, Content: "original"}}, nil
		},
	}
	s := newSync(gw)
	if err := s.Refresh(t.Context(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := s.Thread(1)
	got[0].Content = "mutated"

	if s.Thread(1)[0].Content != "original" {
		t.Error("mutating the returned thread leaked into the cache")
	}
}

func TestForgetDropsThread(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(_ context.Context, _ int64) ([]domain.Comment, error) {
			return []domain.Comment{{ID: 1}}, nil
		},
	}
	s := newSync(gw)
	if err := s.Refresh(t.Context(), 1); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	s.Forget(1)
	if s.Thread(1) != nil {
		t.Error("thread survived Forget")
	}
}
