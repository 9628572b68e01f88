package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSendTurnsDealLinkIntoButton(t *testing.T) {
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottok/sendMessage") {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramSender("tok", "42")
	s.apiBase = srv.URL

	err := s.Send(t.Context(), "Price drop: Headphones", "100.00 -> 80.00 (-20%)\nhttps://shop.example.com/deal/7")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.ChatID != "42" {
		t.Errorf("chat_id = %q", got.ChatID)
	}
	if strings.Contains(got.Text, "https://shop.example.com") {
		t.Errorf("link should move out of the text, got %q", got.Text)
	}
	if got.ReplyMarkup == nil || len(got.ReplyMarkup.InlineKeyboard) != 1 {
		t.Fatal("expected one inline keyboard row")
	}
	btn := got.ReplyMarkup.InlineKeyboard[0][0]
	if btn.URL != "https://shop.example.com/deal/7" || btn.Text != "Open deal" {
		t.Errorf("button = %+v", btn)
	}
}

func TestTelegramSendEscapesHTML(t *testing.T) {
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramSender("tok", "42")
	s.apiBase = srv.URL

	if err := s.Send(t.Context(), "Deal <50% off>", "a & b"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(got.Text, "&lt;50% off&gt;") || !strings.Contains(got.Text, "a &amp; b") {
		t.Errorf("text not escaped: %q", got.Text)
	}
}

func TestTelegramSendReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewTelegramSender("tok", "42")
	s.apiBase = srv.URL

	err := s.Send(t.Context(), "t", "m")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v, want API description surfaced", err)
	}
}

func TestSplitTrailingLink(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantLink string
		wantRest string
		wantOK   bool
	}{
		{"link on last line", "drop\nhttps://x.test/d/1", "https://x.test/d/1", "drop", true},
		{"no newline", "https://x.test/d/1", "", "https://x.test/d/1", false},
		{"last line not a link", "drop\nsee above", "", "drop\nsee above", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, rest, ok := splitTrailingLink(tt.message)
			if link != tt.wantLink || rest != tt.wantRest || ok != tt.wantOK {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)", link, rest, ok, tt.wantLink, tt.wantRest, tt.wantOK)
			}
		})
	}
}
