// Package engage keeps per-deal vote and save state consistent under
// optimistic updates and out-of-order server confirmations.
package engage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/knowbargain/kbargain/internal/domain"
)

// record is the store's internal per-deal state. displayedScore always
// equals confirmedScore plus the optimistic delta of the latest issued
// request while that request is pending.
type record struct {
	confirmedDir   domain.VoteDirection
	confirmedScore int
	direction      domain.VoteDirection
	displayedScore int
	saved          bool
	phase          domain.EngagementPhase
	// seq is a monotonic per-deal request sequence number. A settling vote
	// request applies its result only while its number is still the latest
	// issued; anything older is stale and discarded.
	seq uint64
}

// Store reconciles optimistic local engagement state against
// server-confirmed state. All methods are safe for concurrent use; distinct
// deals evolve independently.
type Store struct {
	gw     domain.Gateway
	logger *slog.Logger

	mu      sync.Mutex
	records map[int64]*record

	onChange       func(dealID int64)
	onSavedChanged func()
}

// NewStore creates an empty engagement store backed by the given gateway.
func NewStore(gw domain.Gateway, logger *slog.Logger) *Store {
	return &Store{
		gw:      gw,
		logger:  logger.With(slog.String("component", "engage")),
		records: make(map[int64]*record),
	}
}

// OnChange registers a callback fired after any deal's engagement state
// changes. Called without the store lock held.
func (s *Store) OnChange(fn func(dealID int64)) {
	s.onChange = fn
}

// OnSavedListChanged registers a callback fired after a successful save
// toggle, so list views tracking the saved set can refresh.
func (s *Store) OnSavedListChanged(fn func()) {
	s.onSavedChanged = fn
}

// Seed initializes (or refreshes) a deal's record from a server snapshot.
// A pending optimistic update is not clobbered; the confirmed baseline is
// updated underneath it.
func (s *Store) Seed(deal domain.Deal) {
	s.mu.Lock()
	rec, ok := s.records[deal.ID]
	if !ok {
		s.records[deal.ID] = &record{
			confirmedScore: deal.Score,
			displayedScore: deal.Score,
			confirmedDir:   domain.VoteNone,
			direction:      domain.VoteNone,
			phase:          domain.PhaseClean,
		}
		s.mu.Unlock()
		return
	}
	rec.confirmedScore = deal.Score
	if rec.phase != domain.PhasePending {
		rec.displayedScore = deal.Score
		rec.phase = domain.PhaseClean
	}
	s.mu.Unlock()
}

// MarkSaved records server truth about the saved flag, used when seeding
// from the saved-deals listing.
func (s *Store) MarkSaved(dealID int64, saved bool) {
	s.mu.Lock()
	s.ensure(dealID).saved = saved
	s.mu.Unlock()
}

// Forget discards a deal's record when it leaves view. Any in-flight
// request for it becomes stale and its result is dropped on arrival.
func (s *Store) Forget(dealID int64) {
	s.mu.Lock()
	delete(s.records, dealID)
	s.mu.Unlock()
}

// Get returns the engagement state for one deal.
func (s *Store) Get(dealID int64) (domain.Engagement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[dealID]
	if !ok {
		return domain.Engagement{}, false
	}
	return rec.engagement(), true
}

// Snapshot returns a copy of all engagement records, keyed by deal ID. The
// returned map is safe to hand to the feed composer.
func (s *Store) Snapshot() map[int64]domain.Engagement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]domain.Engagement, len(s.records))
	for id, rec := range s.records {
		out[id] = rec.engagement()
	}
	return out
}

// Vote casts an up or down vote on a deal. The optimistic delta is applied
// immediately; the server's returned score replaces it on success, and on
// failure the record rolls back to the last confirmed state. When several
// votes race on the same deal only the latest issued request's result is
// applied; responses for earlier requests are discarded regardless of
// arrival order.
func (s *Store) Vote(ctx context.Context, dealID int64, dir domain.VoteDirection) error {
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return fmt.Errorf("engage: vote direction %q: %w", dir, domain.ErrValidation)
	}

	s.mu.Lock()
	rec := s.ensure(dealID)
	rec.seq++
	seq := rec.seq
	rec.displayedScore = rec.confirmedScore + voteDelta(rec.confirmedDir, dir)
	rec.direction = dir
	rec.phase = domain.PhasePending
	s.mu.Unlock()
	s.notify(dealID)

	res, err := s.gw.Vote(ctx, dealID, dir)

	s.mu.Lock()
	rec, ok := s.records[dealID]
	if !ok || rec.seq != seq {
		// A newer vote superseded this request, or the deal left view.
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding stale vote response",
			slog.Int64("deal_id", dealID),
			slog.Uint64("seq", seq),
		)
		return nil
	}

	if err != nil {
		rec.direction = rec.confirmedDir
		rec.displayedScore = rec.confirmedScore
		rec.phase = domain.PhaseRolledBack
		s.mu.Unlock()
		s.notify(dealID)
		return fmt.Errorf("engage: vote on deal %d: %w", dealID, err)
	}

	// Re-voting the current direction makes the server retract the vote; it
	// signals that through the message text.
	confirmed := dir
	if strings.Contains(strings.ToLower(res.Message), "removed") {
		confirmed = domain.VoteNone
	}
	rec.confirmedDir = confirmed
	rec.direction = confirmed
	rec.confirmedScore = res.Score
	rec.displayedScore = res.Score
	rec.phase = domain.PhaseConfirmed
	s.mu.Unlock()
	s.notify(dealID)
	return nil
}

// Save toggles the saved flag for a deal. There is no optimistic flip: the
// flag changes only after the server confirms, and the saved-list callback
// fires so dependent views refresh.
func (s *Store) Save(ctx context.Context, dealID int64) error {
	res, err := s.gw.ToggleSave(ctx, dealID)
	if err != nil {
		return fmt.Errorf("engage: save deal %d: %w", dealID, err)
	}

	s.mu.Lock()
	s.ensure(dealID).saved = res.Saved()
	s.mu.Unlock()
	s.notify(dealID)

	if s.onSavedChanged != nil {
		s.onSavedChanged()
	}
	return nil
}

// ensure returns the record for dealID, creating a clean one on first use.
// Caller must hold s.mu.
func (s *Store) ensure(dealID int64) *record {
	rec, ok := s.records[dealID]
	if !ok {
		rec = &record{
			confirmedDir: domain.VoteNone,
			direction:    domain.VoteNone,
			phase:        domain.PhaseClean,
		}
		s.records[dealID] = rec
	}
	return rec
}

func (s *Store) notify(dealID int64) {
	if s.onChange != nil {
		s.onChange(dealID)
	}
}

func (r *record) engagement() domain.Engagement {
	return domain.Engagement{
		Direction:      r.direction,
		DisplayedScore: r.displayedScore,
		Saved:          r.saved,
		Phase:          r.phase,
	}
}

// voteDelta is the optimistic score change for switching from the confirmed
// direction to the requested one, matching how the server resolves the vote:
// same direction retracts, opposite direction swings by two.
func voteDelta(confirmed, requested domain.VoteDirection) int {
	switch confirmed {
	case domain.VoteUp:
		if requested == domain.VoteUp {
			return -1
		}
		return -2
	case domain.VoteDown:
		if requested == domain.VoteDown {
			return 1
		}
		return 2
	default:
		if requested == domain.VoteUp {
			return 1
		}
		return -1
	}
}
