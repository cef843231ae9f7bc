// Package config loads the bot's static configuration. YAML and JSON files
// are both accepted; unknown fields are rejected. All durations are Go
// duration strings (e.g. "120s", "60m").
//
// The Telegram token is deliberately not part of the file: it comes from
// the TELEGRAM_TOKEN environment variable.
package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Archive  ArchiveConfig  `json:"archive"`
	State    StateConfig    `json:"state,omitempty"`
	Status   StatusConfig   `json:"status,omitempty"`
	Logging  LoggingConfig  `json:"logging,omitempty"`

	// Keywords gate the department-internal category. Patterns are plain
	// words with limited wildcards; an empty list would block that category
	// entirely, so omitting the field keeps the built-in defaults.
	Keywords []string `json:"keywords,omitempty"`
}

type TelegramConfig struct {
	// ChannelID receives announcement notifications.
	ChannelID int64 `json:"channel_id"`
	// StateChannelID is the private chat holding the state snapshot.
	StateChannelID int64 `json:"state_channel_id"`
}

type ArchiveConfig struct {
	URL     string `json:"url,omitempty"`
	BaseURL string `json:"base_url,omitempty"`

	// Interval between polling cycles.
	Interval string `json:"interval,omitempty"`
	// MaxAgeDays is the hard cutoff: rows older than this stop the scan.
	MaxAgeDays int `json:"max_age_days,omitempty"`
	// HTTPTimeout bounds every archive/detail request.
	HTTPTimeout string `json:"http_timeout,omitempty"`

	// DetailFailPolicy: "abort-cycle" (default) or "skip-row".
	DetailFailPolicy string `json:"detail_fail_policy,omitempty"`
}

// StateConfig controls seen-id persistence.
//
// Driver values:
//   - "channel": snapshot pinned in the state chat (default)
//   - "sqlite":  local database file at Path
type StateConfig struct {
	Driver   string `json:"driver,omitempty"`
	Path     string `json:"path,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type StatusConfig struct {
	Enabled    *bool    `json:"enabled,omitempty"` // nil means enabled
	Interval   string   `json:"interval,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

type LoggingConfig struct {
	Level    string            `json:"level,omitempty"`
	Console  *bool             `json:"console,omitempty"` // nil means enabled
	File     LogFileConfig     `json:"file,omitempty"`
	Telegram LogTelegramConfig `json:"telegram,omitempty"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// LogTelegramConfig mirrors warn/error records to a chat (the state chat by
// default), rate limited.
type LogTelegramConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	ChatID     int64  `json:"chat_id,omitempty"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// Defaults matching the source site.
const (
	DefaultArchiveURL  = "https://www.ece.ntua.gr/gr/archive"
	DefaultBaseURL     = "https://www.ece.ntua.gr"
	DefaultInterval    = 120 * time.Second
	DefaultMaxAgeDays  = 10
	DefaultHTTPTimeout = 30 * time.Second

	DefaultStatusInterval = 60 * time.Minute
)

// DefaultKeywords is the fixed pattern list gating the department category.
func DefaultKeywords() []string {
	return []string{
		"ΤΣΑΝΑΚΑΣ",
		"ΚΟΖΥΡΗΣ",
		"ΚΟΣΜΗΤΩΡΑΣ",
		"ΕΞΕΤΑΣ.*",
		"ΑΠΕΡΓΙΑ.*",
		"ΕΞΑΜΗΝΟΥ?",
		"ΑΝΑΒΟΛΗΣ?",
		"ΕΚΤΑΚΤΗ",
		"ΜΜΜ",
		"ΔΕΝ?",
	}
}

func (c *Config) applyDefaults() {
	if c.Archive.URL == "" {
		c.Archive.URL = DefaultArchiveURL
	}
	if c.Archive.BaseURL == "" {
		c.Archive.BaseURL = DefaultBaseURL
	}
	if c.Archive.MaxAgeDays == 0 {
		c.Archive.MaxAgeDays = DefaultMaxAgeDays
	}
	if len(c.Keywords) == 0 {
		c.Keywords = DefaultKeywords()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
}

func (c *Config) validate() error {
	if c.Telegram.ChannelID == 0 {
		return fmt.Errorf("telegram.channel_id is required")
	}
	driver := strings.ToLower(strings.TrimSpace(c.State.Driver))
	switch driver {
	case "", "channel":
		if c.Telegram.StateChannelID == 0 {
			return fmt.Errorf("telegram.state_channel_id is required with the channel state driver")
		}
	case "sqlite", "sqlite3":
		if strings.TrimSpace(c.State.Path) == "" {
			return fmt.Errorf("state.path is required with the sqlite state driver")
		}
	default:
		return fmt.Errorf("unknown state.driver %q", c.State.Driver)
	}
	if c.Archive.MaxAgeDays < 0 {
		return fmt.Errorf("archive.max_age_days must be >= 0")
	}
	return nil
}

// Interval returns the polling interval.
func (c *Config) Interval() (time.Duration, error) {
	return parseDurationOrDefault("archive.interval", c.Archive.Interval, DefaultInterval)
}

// HTTPTimeout returns the per-request timeout.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	return parseDurationOrDefault("archive.http_timeout", c.Archive.HTTPTimeout, DefaultHTTPTimeout)
}

// StatusInterval returns the presence rotation interval.
func (c *Config) StatusInterval() (time.Duration, error) {
	return parseDurationOrDefault("status.interval", c.Status.Interval, DefaultStatusInterval)
}

// MaxAge returns the row cutoff as a duration.
func (c *Config) MaxAge() time.Duration {
	return time.Duration(c.Archive.MaxAgeDays) * 24 * time.Hour
}

// StatusEnabled reports whether presence rotation is on (default true).
func (c *Config) StatusEnabled() bool {
	return c.Status.Enabled == nil || *c.Status.Enabled
}

// ConsoleLogging reports whether console output is on (default true).
func (c *Config) ConsoleLogging() bool {
	return c.Logging.Console == nil || *c.Logging.Console
}

func parseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
