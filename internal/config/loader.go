package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies KBARGAIN_* environment variable overrides, and
// returns the final Config. A missing file is not an error; defaults plus
// env overrides apply. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known KBARGAIN_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets users inject secrets (notify webhooks, the token passphrase) without
// putting them in the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.API.BaseURL, "KBARGAIN_API_BASE_URL")
	setDuration(&cfg.API.Timeout, "KBARGAIN_API_TIMEOUT")

	setStr(&cfg.Session.TokenPath, "KBARGAIN_SESSION_TOKEN_PATH")
	setStr(&cfg.Session.Passphrase, "KBARGAIN_SESSION_PASSPHRASE")

	setStr(&cfg.UI.Category, "KBARGAIN_UI_CATEGORY")
	setStr(&cfg.UI.Sort, "KBARGAIN_UI_SORT")

	setDuration(&cfg.Watch.Interval, "KBARGAIN_WATCH_INTERVAL")
	setFloat64(&cfg.Watch.DropPercent, "KBARGAIN_WATCH_DROP_PERCENT")
	setBool(&cfg.Watch.StatusAlerts, "KBARGAIN_WATCH_STATUS_ALERTS")

	setStr(&cfg.Notify.TelegramToken, "KBARGAIN_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "KBARGAIN_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "KBARGAIN_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "KBARGAIN_NOTIFY_EVENTS")

	setStr(&cfg.Mode, "KBARGAIN_MODE")
	setStr(&cfg.LogLevel, "KBARGAIN_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
