package knowbargain

import (
	"fmt"
	"strings"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

// apiTime parses the timestamp formats the server emits. JSON-rendered
// datetimes come out RFC 1123 style ("Tue, 22 Oct 2024 14:03:00 GMT");
// RFC 3339 is accepted too in case the server is ever fronted by something
// that normalizes them.
type apiTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// dealJSON is the wire shape of a deal. The list, detail, and saved
// endpoints each return a subset of these fields; absent fields stay zero.
type dealJSON struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Link          string  `json:"link"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	Status        string  `json:"status"`
	ImageURL      string  `json:"image_url"`
	Username      string  `json:"username"`
	Reputation    int     `json:"reputation"`
	Score         int     `json:"score"`
	CommentCount  int     `json:"comment_count"`
	CreatedAt     apiTime `json:"created_at"`
}

func (d dealJSON) toDomain() domain.Deal {
	return domain.Deal{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		Link:          d.Link,
		ImageURL:      d.ImageURL,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Status:        domain.DealStatus(d.Status),
		Score:         d.Score,
		CommentCount:  d.CommentCount,
		Owner:         d.Username,
		OwnerRep:      d.Reputation,
		CreatedAt:     d.CreatedAt.Time,
	}
}

type commentJSON struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	Username  string  `json:"username"`
	CreatedAt apiTime `json:"created_at"`
}

func (c commentJSON) toDomain() domain.Comment {
	return domain.Comment{
		ID:        c.ID,
		Author:    c.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Time,
	}
}

type pricePointJSON struct {
	Price     float64 `json:"price"`
	Timestamp apiTime `json:"timestamp"`
}

type voteResponse struct {
	Message string `json:"message"`
	Score   int    `json:"score"`
}

type saveResponse struct {
	Message string `json:"message"`
}

type priceTickResponse struct {
	Message   string  `json:"message"`
	NewPrice  float64 `json:"new_price"`
	Timestamp apiTime `json:"timestamp"`
}

type submitResponse struct {
	Message string `json:"message"`
	DealID  int64  `json:"deal_id"`
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Reputation int    `json:"reputation"`
}

type statsResponse struct {
	Deals    int `json:"deals"`
	Comments int `json:"comments"`
	Karma    int `json:"karma"`
	Saved    int `json:"saved"`
}

type errorResponse struct {
	Error string `json:"error"`
}
