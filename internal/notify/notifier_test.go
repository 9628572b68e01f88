package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type fakeSender struct {
	name  string
	calls int
	err   error
}

func (f *fakeSender) Send(_ context.Context, _, _ string) error {
	f.calls++
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func TestNotifyFansOutToAllSenders(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}
	n := NewNotifier([]Sender{a, b}, nil, slog.New(slog.DiscardHandler))

	if err := n.Notify(t.Context(), EventPriceDrop, "drop", "down 20%"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d, want 1 each", a.calls, b.calls)
	}
}

func TestNotifyFiltersDisallowedEvents(t *testing.T) {
	s := &fakeSender{name: "a"}
	n := NewNotifier([]Sender{s}, []string{EventPriceDrop}, slog.New(slog.DiscardHandler))

	if err := n.Notify(t.Context(), EventStatusChange, "expired", "gone"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if s.calls != 0 {
		t.Errorf("filtered event reached sender, calls = %d", s.calls)
	}
	if err := n.Notify(t.Context(), EventPriceDrop, "drop", "down"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if s.calls != 1 {
		t.Errorf("allowed event blocked, calls = %d", s.calls)
	}
}

func TestNotifyFailingSenderDoesNotBlockOthers(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("webhook 500")}
	good := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, slog.New(slog.DiscardHandler))

	err := n.Notify(t.Context(), EventPriceDrop, "drop", "down")
	if err == nil {
		t.Fatal("expected combined error from failing sender")
	}
	if good.calls != 1 {
		t.Errorf("healthy sender skipped, calls = %d", good.calls)
	}
}
