// Package config defines the kbargain client configuration and provides
// validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by KBARGAIN_* environment
// variables.
type Config struct {
	API      APIConfig     `toml:"api"`
	Session  SessionConfig `toml:"session"`
	UI       UIConfig      `toml:"ui"`
	Watch    WatchConfig   `toml:"watch"`
	Notify   NotifyConfig  `toml:"notify"`
	Mode     string        `toml:"mode"`
	LogLevel string        `toml:"log_level"`
}

// APIConfig holds the KnowBargain API endpoint parameters.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// SessionConfig holds the bearer-token storage parameters. TokenPath is the
// only local persistence the client has; a non-empty Passphrase encrypts
// the token file at rest.
type SessionConfig struct {
	TokenPath  string `toml:"token_path"`
	Passphrase string `toml:"passphrase"`
}

// UIConfig holds browse-mode defaults.
type UIConfig struct {
	Category string `toml:"category"`
	Sort     string `toml:"sort"`
}

// WatchConfig holds the price-watch loop parameters.
type WatchConfig struct {
	Interval duration `toml:"interval"`
	// DropPercent is the minimum relative price drop that raises an alert,
	// as a fraction (0.10 = 10%).
	DropPercent  float64 `toml:"drop_percent"`
	StatusAlerts bool    `toml:"status_alerts"`
}

// NotifyConfig holds alert channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration for TOML decoding.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration used when the TOML file omits
// a field.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: duration{30 * time.Second},
		},
		Session: SessionConfig{
			TokenPath: "", // resolved relative to the user config dir in main
		},
		UI: UIConfig{
			Category: "all",
			Sort:     "newest",
		},
		Watch: WatchConfig{
			Interval:     duration{5 * time.Minute},
			DropPercent:  0.10,
			StatusAlerts: true,
		},
		Notify: NotifyConfig{
			Events: []string{"price_drop", "status_change"},
		},
		Mode:     "browse",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"browse": true,
	"watch":  true,
	"login":  true,
	"signup": true,
	"logout": true,
	"stats":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validSorts enumerates the accepted values for UIConfig.Sort.
var validSorts = map[string]bool{
	"newest":     true,
	"top":        true,
	"price_asc":  true,
	"price_desc": true,
	"discussed":  true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: browse, watch, login, signup, logout, stats)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, "api: base_url must be set")
	}
	if c.API.Timeout.Duration <= 0 {
		errs = append(errs, "api: timeout must be positive")
	}

	if c.UI.Sort != "" && !validSorts[c.UI.Sort] {
		errs = append(errs, fmt.Sprintf("ui: unknown sort %q (valid: newest, top, price_asc, price_desc, discussed)", c.UI.Sort))
	}

	if strings.ToLower(c.Mode) == "watch" {
		if c.Watch.Interval.Duration < time.Second {
			errs = append(errs, "watch: interval must be at least 1s")
		}
		if c.Watch.DropPercent < 0 || c.Watch.DropPercent >= 1 {
			errs = append(errs, "watch: drop_percent must be in [0, 1)")
		}
		if c.Notify.DiscordWebhookURL == "" && c.Notify.TelegramToken == "" {
			errs = append(errs, "watch: at least one notify channel (discord_webhook_url or telegram_token) must be configured")
		}
		if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
			errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
