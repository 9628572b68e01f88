package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000/api" {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Mode != "browse" {
		t.Errorf("Mode = %q, want browse", cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
mode = "watch"
log_level = "debug"

[api]
base_url = "https://deals.example.com/api"
timeout = "10s"

[watch]
interval = "1m"
drop_percent = 0.25

[notify]
discord_webhook_url = "https://discord.example.com/hook"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://deals.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout.Duration)
	}
	if cfg.Watch.Interval.Duration != time.Minute {
		t.Errorf("Interval = %v, want 1m", cfg.Watch.Interval.Duration)
	}
	// Unset field keeps its default.
	if cfg.UI.Category != "all" {
		t.Errorf("Category = %q, want default all", cfg.UI.Category)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KBARGAIN_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("KBARGAIN_MODE", "watch")
	t.Setenv("KBARGAIN_WATCH_DROP_PERCENT", "0.5")
	t.Setenv("KBARGAIN_NOTIFY_EVENTS", "price_drop, status_change")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Mode != "watch" {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.Watch.DropPercent != 0.5 {
		t.Errorf("DropPercent = %v", cfg.Watch.DropPercent)
	}
	if len(cfg.Notify.Events) != 2 || cfg.Notify.Events[0] != "price_drop" {
		t.Errorf("Events = %v", cfg.Notify.Events)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad mode", func(c *Config) { c.Mode = "serve" }, "unknown mode"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "unknown log_level"},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"bad sort", func(c *Config) { c.UI.Sort = "random" }, "unknown sort"},
		{
			"watch without channel",
			func(c *Config) { c.Mode = "watch" },
			"notify channel",
		},
		{
			"watch bad drop percent",
			func(c *Config) {
				c.Mode = "watch"
				c.Notify.DiscordWebhookURL = "https://example.com/hook"
				c.Watch.DropPercent = 1.5
			},
			"drop_percent",
		},
		{
			"telegram without chat id",
			func(c *Config) {
				c.Mode = "watch"
				c.Notify.TelegramToken = "bot-token"
			},
			"telegram_chat_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}
