// Package price maintains each deal's append-only price history and keeps
// it consistent with the deal's displayed current price.
package price

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

// Tracker holds one ordered time series per deal. A deal's current price and
// the last point of its series are updated under the same lock, so a reader
// can never observe them disagreeing.
type Tracker struct {
	gw     domain.Gateway
	logger *slog.Logger

	mu     sync.RWMutex
	series map[int64][]domain.PricePoint
}

// NewTracker creates an empty Tracker backed by the given gateway.
func NewTracker(gw domain.Gateway, logger *slog.Logger) *Tracker {
	return &Tracker{
		gw:     gw,
		logger: logger.With(slog.String("component", "price")),
		series: make(map[int64][]domain.PricePoint),
	}
}

// Load replaces a deal's series with server-provided history (oldest
// first). Points are stored as given; gaps are preserved, nothing is
// smoothed or interpolated.
func (t *Tracker) Load(dealID int64, points []domain.PricePoint) {
	cp := make([]domain.PricePoint, len(points))
	copy(cp, points)

	t.mu.Lock()
	t.series[dealID] = cp
	t.mu.Unlock()
}

// Sync fetches a deal's price history from the server and loads it.
func (t *Tracker) Sync(ctx context.Context, dealID int64) error {
	points, err := t.gw.PriceHistory(ctx, dealID)
	if err != nil {
		return fmt.Errorf("price: sync history for deal %d: %w", dealID, err)
	}
	t.Load(dealID, points)
	return nil
}

// Record appends a price observation to the deal's series. Timestamps must
// be non-decreasing; an observation dated before the last point is clamped
// to the last point's time rather than re-sorting the series.
func (t *Tracker) Record(dealID int64, price float64, ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pts := t.series[dealID]
	if n := len(pts); n > 0 && ts.Before(pts[n-1].Timestamp) {
		ts = pts[n-1].Timestamp
	}
	t.series[dealID] = append(pts, domain.PricePoint{Price: price, Timestamp: ts})
}

// Simulate asks the server for a price tick on the deal and records the
// confirmed observation. The returned tick carries the new current price.
func (t *Tracker) Simulate(ctx context.Context, dealID int64) (domain.PriceTick, error) {
	tick, err := t.gw.SimulatePriceChange(ctx, dealID)
	if err != nil {
		return domain.PriceTick{}, fmt.Errorf("price: simulate for deal %d: %w", dealID, err)
	}

	ts := tick.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	t.Record(dealID, tick.NewPrice, ts)
	return tick, nil
}

// History returns a copy of the deal's series. The returned slice is safe
// to mutate.
func (t *Tracker) History(dealID int64) []domain.PricePoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	src := t.series[dealID]
	if len(src) == 0 {
		return nil
	}
	out := make([]domain.PricePoint, len(src))
	copy(out, src)
	return out
}

// Current returns the deal's current price: the price of the last recorded
// point. ok is false when no observation exists yet.
func (t *Tracker) Current(dealID int64) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pts := t.series[dealID]
	if len(pts) == 0 {
		return 0, false
	}
	return pts[len(pts)-1].Price, true
}

// Drop discards a deal's series when it leaves view.
func (t *Tracker) Drop(dealID int64) {
	t.mu.Lock()
	delete(t.series, dealID)
	t.mu.Unlock()
}
