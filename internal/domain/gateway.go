package domain

import (
	"context"
	"time"
)

// VoteResult is the server's response to a vote request. Message is one of
// "Vote recorded", "Vote updated", or "Vote removed"; Score is the deal's
// authoritative score after the vote was applied.
type VoteResult struct {
	Score   int
	Message string
}

// SaveResult is the server's response to a save toggle.
type SaveResult struct {
	Message string
}

// Saved reports whether the toggle left the deal saved. The endpoint is a
// toggle, so the message text is the only signal of the resulting state.
func (r SaveResult) Saved() bool {
	return r.Message != "Deal unsaved"
}

// PriceTick is the server's response to a simulated price change.
type PriceTick struct {
	NewPrice  float64
	Timestamp time.Time
	Message   string
}

// AuthResult is the server's response to login or signup.
type AuthResult struct {
	Token   string
	UserID  int64
	Message string
}

// Gateway is the full KnowBargain API surface the client consumes. The
// concrete implementation lives in internal/platform/knowbargain; services
// depend on this interface so tests can substitute fakes.
//
// Gateway methods never mutate the session: auth flows receive a token in
// AuthResult and set or clear it on the session explicitly.
type Gateway interface {
	ListDeals(ctx context.Context) ([]Deal, error)
	GetDeal(ctx context.Context, dealID int64) (Deal, error)
	SubmitDeal(ctx context.Context, sub DealSubmission) (int64, error)
	SavedDeals(ctx context.Context) ([]Deal, error)

	Vote(ctx context.Context, dealID int64, direction VoteDirection) (VoteResult, error)
	ToggleSave(ctx context.Context, dealID int64) (SaveResult, error)

	ListComments(ctx context.Context, dealID int64) ([]Comment, error)
	PostComment(ctx context.Context, dealID int64, content string) error

	PriceHistory(ctx context.Context, dealID int64) ([]PricePoint, error)
	SimulatePriceChange(ctx context.Context, dealID int64) (PriceTick, error)

	Login(ctx context.Context, email, password string) (AuthResult, error)
	Signup(ctx context.Context, username, email, password string) (AuthResult, error)
	Me(ctx context.Context) (User, error)
	UserStats(ctx context.Context) (Stats, error)
}
