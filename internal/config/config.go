package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vmartins/studysync/internal/utils"
)

// NotionProperties names the columns studysync reads and writes in each
// Notion database. Defaults match a Portuguese-language workspace; rename
// here if your databases use different property names.
type NotionProperties struct {
	TaskTitle     string `yaml:"task_title" json:"task_title"`
	TopicTitle    string `yaml:"topic_title" json:"topic_title"`
	Status        string `yaml:"status" json:"status"`
	StatusDone    string `yaml:"status_done" json:"status_done"`
	DueDate       string `yaml:"due_date" json:"due_date"`
	DurationHours string `yaml:"duration_hours" json:"duration_hours"`
	TopicRelation string `yaml:"topic_relation" json:"topic_relation"`
	DayOfWeek     string `yaml:"day_of_week" json:"day_of_week"`
	StartTime     string `yaml:"start_time" json:"start_time"`
	EndTime       string `yaml:"end_time" json:"end_time"`
	ExceptionDate string `yaml:"exception_date" json:"exception_date"`
	ScheduleTitle string `yaml:"schedule_title" json:"schedule_title"`
	ScheduleDate  string `yaml:"schedule_date" json:"schedule_date"`
	ActivityRel   string `yaml:"activity_relation" json:"activity_relation"`
	TopicRel      string `yaml:"topic_rel" json:"topic_rel"`
}

// NotionConfig identifies the four databases the sync touches.
type NotionConfig struct {
	TasksDB     string `yaml:"tasks_db" json:"tasks_db"`
	TopicsDB    string `yaml:"topics_db" json:"topics_db"`
	TimeSlotsDB string `yaml:"time_slots_db" json:"time_slots_db"`
	SchedulesDB string `yaml:"schedules_db" json:"schedules_db"`

	// ClearSchedules archives every page in the schedules database before
	// writing the new run.
	ClearSchedules bool `yaml:"clear_schedules" json:"clear_schedules"`
	// BatchSize is the number of schedule entries created per batch.
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	Properties NotionProperties `yaml:"properties" json:"properties"`
}

// CacheConfig controls the local cache of fetched Notion data.
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	MaxAgeHours int    `yaml:"max_age_hours" json:"max_age_hours"`
	Backend     string `yaml:"backend" json:"backend"` // "sqlite" or "json"
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone all scheduling happens in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DaysToSchedule is the availability horizon in calendar days,
	// starting today.
	DaysToSchedule int `yaml:"days_to_schedule" json:"days_to_schedule"`

	// MaxPartHours caps the length of one scheduled session.
	MaxPartHours float64 `yaml:"max_part_hours" json:"max_part_hours"`

	// RestHours is the mandatory gap inserted between sessions of the
	// same task when enough slack remains in the interval.
	RestHours float64 `yaml:"rest_hours" json:"rest_hours"`

	// DayNames maps the template's native weekday names (lowercased) to
	// English weekday names. Rows whose name is missing here are dropped.
	DayNames map[string]string `yaml:"day_names" json:"day_names"`

	// ExportDir receives the rendered schedule files.
	ExportDir string `yaml:"export_dir" json:"export_dir"`

	Notion NotionConfig `yaml:"notion" json:"notion"`
	Cache  CacheConfig  `yaml:"cache" json:"cache"`
}

// DefaultDayNames is the Portuguese weekday map the template was built with.
func DefaultDayNames() map[string]string {
	return map[string]string{
		"segunda": "Monday",
		"terça":   "Tuesday",
		"quarta":  "Wednesday",
		"quinta":  "Thursday",
		"sexta":   "Friday",
		"sábado":  "Saturday",
		"domingo": "Sunday",
	}
}

func DefaultConfig() *Config {
	return &Config{
		Timezone:       "America/Sao_Paulo",
		DaysToSchedule: 30,
		MaxPartHours:   2,
		RestHours:      1,
		DayNames:       DefaultDayNames(),
		ExportDir:      "export",
		Notion: NotionConfig{
			ClearSchedules: true,
			BatchSize:      15,
			Properties:     defaultProperties(),
		},
		Cache: CacheConfig{
			Enabled:     false,
			MaxAgeHours: 24,
			Backend:     "sqlite",
		},
	}
}

func defaultProperties() NotionProperties {
	return NotionProperties{
		TaskTitle:     "Professor",
		TopicTitle:    "Name",
		Status:        "Status",
		StatusDone:    "✅ Concluído",
		DueDate:       "Data de Entrega",
		DurationHours: "Duração",
		TopicRelation: "ATIVIDADES",
		DayOfWeek:     "Dia da Semana",
		StartTime:     "Hora de Início",
		EndTime:       "Hora de Fim",
		ExceptionDate: "Exceções",
		ScheduleTitle: "Name",
		ScheduleDate:  "Agendamento",
		ActivityRel:   "ATIVIDADES",
		TopicRel:      "TÓPICOS",
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs from older versions still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "America/Sao_Paulo"
	}
	if c.DaysToSchedule <= 0 {
		c.DaysToSchedule = 30
	}
	if c.MaxPartHours <= 0 {
		c.MaxPartHours = 2
	}
	if c.RestHours < 0 {
		c.RestHours = 1
	}
	if len(c.DayNames) == 0 {
		c.DayNames = DefaultDayNames()
	}
	if c.ExportDir == "" {
		c.ExportDir = "export"
	}
	if c.Notion.BatchSize <= 0 {
		c.Notion.BatchSize = 15
	}
	d := defaultProperties()
	p := &c.Notion.Properties
	if p.TaskTitle == "" {
		p.TaskTitle = d.TaskTitle
	}
	if p.TopicTitle == "" {
		p.TopicTitle = d.TopicTitle
	}
	if p.Status == "" {
		p.Status = d.Status
	}
	if p.StatusDone == "" {
		p.StatusDone = d.StatusDone
	}
	if p.DueDate == "" {
		p.DueDate = d.DueDate
	}
	if p.DurationHours == "" {
		p.DurationHours = d.DurationHours
	}
	if p.TopicRelation == "" {
		p.TopicRelation = d.TopicRelation
	}
	if p.DayOfWeek == "" {
		p.DayOfWeek = d.DayOfWeek
	}
	if p.StartTime == "" {
		p.StartTime = d.StartTime
	}
	if p.EndTime == "" {
		p.EndTime = d.EndTime
	}
	if p.ExceptionDate == "" {
		p.ExceptionDate = d.ExceptionDate
	}
	if p.ScheduleTitle == "" {
		p.ScheduleTitle = d.ScheduleTitle
	}
	if p.ScheduleDate == "" {
		p.ScheduleDate = d.ScheduleDate
	}
	if p.ActivityRel == "" {
		p.ActivityRel = d.ActivityRel
	}
	if p.TopicRel == "" {
		p.TopicRel = d.TopicRel
	}
	switch c.Cache.Backend {
	case "sqlite", "json":
	default:
		c.Cache.Backend = "sqlite"
	}
	if c.Cache.MaxAgeHours <= 0 {
		c.Cache.MaxAgeHours = 24
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// MaxPartDuration returns the session cap as a duration.
func (c *Config) MaxPartDuration() time.Duration {
	return time.Duration(c.MaxPartHours * float64(time.Hour))
}

// RestDuration returns the rest gap as a duration.
func (c *Config) RestDuration() time.Duration {
	return time.Duration(c.RestHours * float64(time.Hour))
}

// Weekdays resolves the native→English day map into weekday values.
// Native names are matched case-insensitively.
func (c *Config) Weekdays() (map[string]time.Weekday, error) {
	byName := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}
	out := make(map[string]time.Weekday, len(c.DayNames))
	for native, english := range c.DayNames {
		wd, ok := byName[strings.ToLower(english)]
		if !ok {
			return nil, fmt.Errorf("day_names: %q maps to unknown weekday %q", native, english)
		}
		out[strings.ToLower(native)] = wd
	}
	return out, nil
}

// Validate rejects configurations the scheduler cannot run with.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.DaysToSchedule <= 0 {
		return fmt.Errorf("days_to_schedule must be positive, got %d", c.DaysToSchedule)
	}
	if c.MaxPartHours <= 0 {
		return fmt.Errorf("max_part_hours must be positive, got %v", c.MaxPartHours)
	}
	if c.RestHours < 0 {
		return fmt.Errorf("rest_hours must not be negative, got %v", c.RestHours)
	}
	if _, err := c.Weekdays(); err != nil {
		return err
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studysync.yaml"
	}
	return filepath.Join(home, ".config", "studysync", "config.yaml")
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600) so first runs have something to edit.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studysync-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
