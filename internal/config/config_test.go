package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
telegram:
  channel_id: 1194940888284135434
  state_channel_id: 1194940663784034444
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Archive.URL != DefaultArchiveURL {
		t.Errorf("url = %q", cfg.Archive.URL)
	}
	if cfg.Archive.BaseURL != DefaultBaseURL {
		t.Errorf("base url = %q", cfg.Archive.BaseURL)
	}
	if cfg.Archive.MaxAgeDays != 10 {
		t.Errorf("max age days = %d", cfg.Archive.MaxAgeDays)
	}
	if cfg.MaxAge() != 10*24*time.Hour {
		t.Errorf("max age = %v", cfg.MaxAge())
	}
	if got, _ := cfg.Interval(); got != 120*time.Second {
		t.Errorf("interval = %v", got)
	}
	if got, _ := cfg.HTTPTimeout(); got != 30*time.Second {
		t.Errorf("http timeout = %v", got)
	}
	if got, _ := cfg.StatusInterval(); got != time.Hour {
		t.Errorf("status interval = %v", got)
	}
	if len(cfg.Keywords) != 10 {
		t.Errorf("default keywords = %v", cfg.Keywords)
	}
	if !cfg.StatusEnabled() || !cfg.ConsoleLogging() {
		t.Errorf("status/console should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", minimalYAML+`
archive:
  interval: "5m"
  max_age_days: 3
  detail_fail_policy: "skip-row"
keywords: ["ΕΚΤΑΚΤΗ"]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := cfg.Interval(); got != 5*time.Minute {
		t.Errorf("interval = %v", got)
	}
	if cfg.MaxAge() != 3*24*time.Hour {
		t.Errorf("max age = %v", cfg.MaxAge())
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "ΕΚΤΑΚΤΗ" {
		t.Errorf("keywords = %v", cfg.Keywords)
	}
	if cfg.Archive.DetailFailPolicy != "skip-row" {
		t.Errorf("policy = %q", cfg.Archive.DetailFailPolicy)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "config.yaml", minimalYAML+`
archvie:
  interval: "5m"
`))
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown-field error, got %v", err)
	}
}

func TestLoadRequiresChannelID(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.yaml", "telegram:\n  state_channel_id: 5\n")); err == nil {
		t.Fatalf("expected error for missing channel_id")
	}
}

func TestLoadSqliteDriverRequiresPath(t *testing.T) {
	soloChannel := `
telegram:
  channel_id: 10
state:
  driver: sqlite
`
	if _, err := Load(writeConfig(t, "config.yaml", soloChannel)); err == nil {
		t.Fatalf("expected error for sqlite driver without path")
	}

	withPath := soloChannel + "  path: ./state.db\n"
	cfg, err := Load(writeConfig(t, "config.yaml", withPath))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// sqlite driver needs no state channel
	if cfg.Telegram.StateChannelID != 0 {
		t.Fatalf("unexpected state channel")
	}
}

func TestLoadJSONFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{"telegram": {"channel_id": 1, "state_channel_id": 2}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.ChannelID != 1 || cfg.Telegram.StateChannelID != 2 {
		t.Fatalf("cfg = %+v", cfg.Telegram)
	}
}

func TestLoadBadDuration(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", minimalYAML+`
archive:
  interval: "soon"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.Interval(); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
