package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramSender delivers alerts through the Telegram Bot API.
type TelegramSender struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

type telegramButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type telegramMarkup struct {
	InlineKeyboard [][]telegramButton `json:"inline_keyboard"`
}

type telegramMessage struct {
	ChatID      string          `json:"chat_id"`
	Text        string          `json:"text"`
	ParseMode   string          `json:"parse_mode"`
	ReplyMarkup *telegramMarkup `json:"reply_markup,omitempty"`
}

// NewTelegramSender creates a sender posting to the given chat via the bot
// identified by botToken.
func NewTelegramSender(botToken, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the alert via the bot's sendMessage endpoint. The title is
// rendered bold. When the message's last line is the deal link, it becomes
// an "Open deal" button instead of a bare URL in the text.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	text := message
	var markup *telegramMarkup
	if link, rest, ok := splitTrailingLink(message); ok {
		text = rest
		markup = &telegramMarkup{
			InlineKeyboard: [][]telegramButton{{{Text: "Open deal", URL: link}}},
		}
	}

	payload := telegramMessage{
		ChatID:      t.chatID,
		Text:        fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(text)),
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// splitTrailingLink pulls an http(s) URL off the message's last line.
func splitTrailingLink(message string) (link, rest string, ok bool) {
	idx := strings.LastIndexByte(message, '\n')
	if idx < 0 {
		return "", message, false
	}
	last := strings.TrimSpace(message[idx+1:])
	if strings.HasPrefix(last, "http://") || strings.HasPrefix(last, "https://") {
		return last, strings.TrimRight(message[:idx], "\n"), true
	}
	return "", message, false
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}
