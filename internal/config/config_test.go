package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() does not validate: %v", err)
	}
	if cfg.Notion.BatchSize != 15 {
		t.Errorf("default batch size = %d, want 15", cfg.Notion.BatchSize)
	}
	if cfg.MaxPartDuration() != 2*time.Hour {
		t.Errorf("MaxPartDuration() = %v, want 2h", cfg.MaxPartDuration())
	}
	if cfg.RestDuration() != time.Hour {
		t.Errorf("RestDuration() = %v, want 1h", cfg.RestDuration())
	}
}

func TestWeekdays(t *testing.T) {
	cfg := DefaultConfig()
	weekdays, err := cfg.Weekdays()
	if err != nil {
		t.Fatalf("Weekdays() error: %v", err)
	}
	if weekdays["segunda"] != time.Monday {
		t.Errorf("segunda = %v, want Monday", weekdays["segunda"])
	}
	if weekdays["domingo"] != time.Sunday {
		t.Errorf("domingo = %v, want Sunday", weekdays["domingo"])
	}
	if len(weekdays) != 7 {
		t.Errorf("got %d weekdays, want 7", len(weekdays))
	}
}

func TestWeekdaysCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DayNames = map[string]string{"Segunda": "MONDAY"}
	weekdays, err := cfg.Weekdays()
	if err != nil {
		t.Fatalf("Weekdays() error: %v", err)
	}
	if weekdays["segunda"] != time.Monday {
		t.Error("native keys should be matched lowercased")
	}
}

func TestWeekdaysRejectsUnknownTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DayNames = map[string]string{"segunda": "Mondayday"}
	if _, err := cfg.Weekdays(); err == nil {
		t.Error("unknown English weekday should fail")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad timezone", func(c *Config) { c.Timezone = "Nowhere/Nothing" }},
		{"zero horizon", func(c *Config) { c.DaysToSchedule = 0 }},
		{"zero part cap", func(c *Config) { c.MaxPartHours = 0 }},
		{"negative rest", func(c *Config) { c.RestHours = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted a bad config")
			}
		})
	}
}

func TestNormalizeFillsGaps(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	cfg.Normalize()

	if cfg.DaysToSchedule != 30 {
		t.Errorf("DaysToSchedule = %d, want 30", cfg.DaysToSchedule)
	}
	if cfg.Notion.Properties.TaskTitle == "" {
		t.Error("property names not defaulted")
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("Cache.Backend = %q, want sqlite", cfg.Cache.Backend)
	}
	if cfg.Cache.MaxAgeHours != 24 {
		t.Errorf("Cache.MaxAgeHours = %d, want 24", cfg.Cache.MaxAgeHours)
	}
	if len(cfg.DayNames) != 7 {
		t.Errorf("DayNames has %d entries, want 7", len(cfg.DayNames))
	}
}

func TestLoadCreatesDefaultOnMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timezone != "America/Sao_Paulo" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Timezone = "Europe/Lisbon"
	cfg.DaysToSchedule = 14
	cfg.Notion.TasksDB = "db-tasks"
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "json"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Timezone != "Europe/Lisbon" || got.DaysToSchedule != 14 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Notion.TasksDB != "db-tasks" {
		t.Errorf("Notion.TasksDB = %q", got.Notion.TasksDB)
	}
	if !got.Cache.Enabled || got.Cache.Backend != "json" {
		t.Errorf("cache settings lost: %+v", got.Cache)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted invalid YAML")
	}
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := strings.Join([]string{
		"timezone: UTC",
		"notion:",
		"  tasks_db: abc",
	}, "\n")
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Notion.TasksDB != "abc" {
		t.Errorf("explicit value lost: %q", cfg.Notion.TasksDB)
	}
	if cfg.Notion.BatchSize != 15 || cfg.MaxPartHours != 2 {
		t.Error("partial config not normalized with defaults")
	}
}
