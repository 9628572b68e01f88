package knowbargain

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/knowbargain/kbargain/internal/domain"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestBearerHeaderAttachedWhenAuthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok-123"), time.Second)
	if _, err := c.ListDeals(t.Context()); err != nil {
		t.Fatalf("ListDeals: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
}

func TestBearerHeaderOmittedWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, present = r.Header.Get("Authorization"), r.Header.Get("Authorization") != ""
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens(""), time.Second)
	if _, err := c.ListDeals(t.Context()); err != nil {
		t.Fatalf("ListDeals: %v", err)
	}
	if present {
		t.Errorf("Authorization header unexpectedly set: %q", gotAuth)
	}
}

func TestVoteParsesScoreAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deals/7/vote" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"message":"Vote recorded","score":15}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok"), time.Second)
	res, err := c.Vote(t.Context(), 7, domain.VoteUp)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if res.Score != 15 || res.Message != "Vote recorded" {
		t.Errorf("got %+v, want score 15, message %q", res, "Vote recorded")
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantIs     error
		wantInText string
	}{
		{"missing token", http.StatusUnauthorized, `{"error":"Missing token"}`, domain.ErrAuthRequired, "Missing token"},
		{"not found", http.StatusNotFound, `{"error":"Deal not found"}`, domain.ErrNotFound, "Deal not found"},
		{"bad vote", http.StatusBadRequest, `{"error":"Invalid vote type"}`, domain.ErrValidation, "Invalid vote type"},
		{"no error field", http.StatusInternalServerError, `<html>boom</html>`, nil, "API request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, staticTokens(""), time.Second)
			_, err := c.GetDeal(t.Context(), 1)
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not an APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantInText {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantInText)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
		})
	}
}

func TestNetworkFailureWrapsErrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, staticTokens(""), time.Second)
	_, err := c.ListDeals(t.Context())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork in chain", err)
	}
}

func TestAPITimeParsing(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"Tue, 22 Oct 2024 14:03:00 GMT"`, time.Date(2024, 10, 22, 14, 3, 0, 0, time.UTC)},
		{`"2024-10-22T14:03:00Z"`, time.Date(2024, 10, 22, 14, 3, 0, 0, time.UTC)},
		{`"2024-10-22T14:03:00"`, time.Date(2024, 10, 22, 14, 3, 0, 0, time.UTC)},
		{`null`, time.Time{}},
	}

	for _, tt := range tests {
		var ts apiTime
		if err := ts.UnmarshalJSON([]byte(tt.raw)); err != nil {
			t.Errorf("UnmarshalJSON(%s): %v", tt.raw, err)
			continue
		}
		if !ts.Time.Equal(tt.want) {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.raw, ts.Time, tt.want)
		}
	}

	var ts apiTime
	if err := ts.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestPriceHistoryDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"price":299.0,"timestamp":"Mon, 01 Jul 2024 09:00:00 GMT"},{"price":249.0,"timestamp":"Tue, 02 Jul 2024 09:00:00 GMT"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens(""), time.Second)
	points, err := c.PriceHistory(t.Context(), 3)
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[1].Price != 249.0 {
		t.Errorf("last price = %v, want 249", points[1].Price)
	}
	if !points[0].Timestamp.Before(points[1].Timestamp) {
		t.Error("points not in ascending time order")
	}
}
