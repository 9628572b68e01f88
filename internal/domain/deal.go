// Package domain defines the core types shared across the kbargain client:
// deals, comments, price points, per-user engagement state, and the Gateway
// interface implemented by the KnowBargain API client.
package domain

import "time"

// DealStatus is the lifecycle state of a deal as reported by the server.
type DealStatus string

const (
	StatusActive       DealStatus = "active"
	StatusExpired      DealStatus = "expired"
	StatusOutOfStock   DealStatus = "out_of_stock"
	StatusPriceMistake DealStatus = "price_mistake"
)

// Deal is a community-submitted offer record. Deals are created server-side
// on submission and mutated by vote and price-change events; the client never
// deletes them.
type Deal struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	Link          string
	ImageURL      string
	Price         float64
	OriginalPrice float64
	Status        DealStatus
	Score         int
	CommentCount  int
	Owner         string
	OwnerRep      int
	CreatedAt     time.Time
}

// DealSubmission is the payload for creating a new deal. Field constraints
// mirror the server's: title and price are mandatory.
type DealSubmission struct {
	Title       string  `validate:"required,max=120"`
	Description string  `validate:"max=2000"`
	Category    string  `validate:"required"`
	Link        string  `validate:"omitempty,url"`
	Price       float64 `validate:"required,gt=0"`
	ImageURL    string  `validate:"omitempty,url"`
}

// DealView is a read-only projection of a Deal merged with the viewing
// user's engagement state, produced by the feed composer for rendering.
type DealView struct {
	Deal
	Engagement Engagement
}
