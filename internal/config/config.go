package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the study planner.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	RemindAt       string        // HH:MM in Location
	RemindEvery    time.Duration // when set, replaces the daily RemindAt slot
	Location       *time.Location
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("STUDY_DATABASE_URL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		RemindAt:      strings.TrimSpace(os.Getenv("STUDY_REMIND_AT")),
		Location:      time.Local,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_data.db"
	}

	if cfg.RemindAt == "" {
		cfg.RemindAt = "07:30"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if raw := strings.TrimSpace(os.Getenv("STUDY_REMIND_EVERY")); raw != "" {
		every, err := time.ParseDuration(raw)
		if err != nil || every <= 0 {
			return cfg, fmt.Errorf("STUDY_REMIND_EVERY must be a positive duration such as 6h, got %q", raw)
		}
		cfg.RemindEvery = every
	}

	if tz := strings.TrimSpace(os.Getenv("STUDY_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("STUDY_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// RemindersEnabled reports whether Telegram delivery is configured.
func (c Config) RemindersEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// RequireReminders returns an error naming the first missing Telegram setting.
func (c Config) RequireReminders() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	return nil
}
