package domain

import "time"

// Comment is a single entry in a deal's discussion thread. Threads are kept
// in the exact order the server returns them; the client never re-sorts.
type Comment struct {
	ID        int64
	Author    string
	Content   string
	CreatedAt time.Time
}

// PricePoint is one timestamped price observation in a deal's history. A
// deal's series is append-only and non-decreasing in timestamp; the last
// point's price always equals the deal's current price.
type PricePoint struct {
	Price     float64
	Timestamp time.Time
}
