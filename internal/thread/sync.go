// Package thread submits comments and keeps each deal's discussion thread
// synchronized with server truth.
package thread

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/knowbargain/kbargain/internal/domain"
)

// Synchronizer posts comments and refreshes threads. A posted comment is
// never appended locally: the full thread is re-fetched after a confirmed
// post so ordering, author names, and timestamps always match the server.
// That trades a little latency for consistency on a low-frequency action.
type Synchronizer struct {
	gw     domain.Gateway
	logger *slog.Logger

	mu      sync.RWMutex
	threads map[int64][]domain.Comment
}

// NewSynchronizer creates an empty Synchronizer backed by the gateway.
func NewSynchronizer(gw domain.Gateway, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		gw:      gw,
		logger:  logger.With(slog.String("component", "thread")),
		threads: make(map[int64][]domain.Comment),
	}
}

// Post submits a comment. Content that is empty after trimming fails with
// domain.ErrValidation before any network call. On success the thread is
// re-fetched; the caller should clear its compose input only when Post
// returns nil so a failed submission never loses the user's text.
func (s *Synchronizer) Post(ctx context.Context, dealID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("thread: comment cannot be empty: %w", domain.ErrValidation)
	}

	if err := s.gw.PostComment(ctx, dealID, content); err != nil {
		return fmt.Errorf("thread: post to deal %d: %w", dealID, err)
	}

	if err := s.Refresh(ctx, dealID); err != nil {
		// The comment was accepted; only the refresh failed. Surface it so
		// the caller can retry the refresh, but the compose input may be
		// cleared.
		s.logger.WarnContext(ctx, "comment posted but thread refresh failed",
			slog.Int64("deal_id", dealID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Refresh replaces the cached thread with the server's, preserving the
// server's ordering verbatim.
func (s *Synchronizer) Refresh(ctx context.Context, dealID int64) error {
	comments, err := s.gw.ListComments(ctx, dealID)
	if err != nil {
		return fmt.Errorf("thread: refresh deal %d: %w", dealID, err)
	}

	s.mu.Lock()
	s.threads[dealID] = comments
	s.mu.Unlock()
	return nil
}

// Thread returns a copy of the cached thread for a deal.
func (s *Synchronizer) Thread(dealID int64) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.threads[dealID]
	if len(src) == 0 {
		return nil
	}
	out := make([]domain.Comment, len(src))
	copy(out, src)
	return out
}

// Forget discards the cached thread when the deal leaves view.
func (s *Synchronizer) Forget(dealID int64) {
	s.mu.Lock()
	delete(s.threads, dealID)
	s.mu.Unlock()
}
