package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/sadopc/focusflow/internal/planner"
)

type Config struct {
	Database    string          `yaml:"database"`
	Log         LogConfig       `yaml:"log"`
	Plan        PlanConfig      `yaml:"plan"`
	Preferences PreferencesFile `yaml:"preferences"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type PlanConfig struct {
	// Days is the default planning horizon.
	Days int `yaml:"days"`
}

// PreferencesFile mirrors planner.Preferences with "HH:MM" strings.
type PreferencesFile struct {
	DailyMinutes      int            `yaml:"daily_minutes"`
	WorkingHours      IntervalFile   `yaml:"working_hours"`
	PeakHours         []IntervalFile `yaml:"peak_hours"`
	PomodoroMinutes   int            `yaml:"pomodoro_minutes"`
	ShortBreakMinutes int            `yaml:"short_break_minutes"`
	LongBreakMinutes  int            `yaml:"long_break_minutes"`
}

type IntervalFile struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return Config{
		Database:    filepath.Join(dir, "focusflow", "focusflow.db"),
		Log:         LogConfig{Level: "info"},
		Plan:        PlanConfig{Days: 7},
		Preferences: FromPreferences(planner.DefaultPreferences()),
	}
}

// DefaultPath returns ~/.config/focusflow/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "focusflow", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.Database = expandHome(cfg.Database)
	cfg.Log.File = expandHome(cfg.Log.File)
	return nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("database path is empty")
	}
	if c.Plan.Days <= 0 {
		return fmt.Errorf("plan.days must be positive, got %d", c.Plan.Days)
	}
	_, err := c.Preferences.Preferences()
	return err
}

// Write stores cfg as YAML at path, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Preferences converts and validates the file form.
func (p PreferencesFile) Preferences() (planner.Preferences, error) {
	working, err := p.WorkingHours.interval()
	if err != nil {
		return planner.Preferences{}, fmt.Errorf("working_hours: %w", err)
	}
	out := planner.Preferences{
		DailyMinutes:      p.DailyMinutes,
		WorkingHours:      working,
		PomodoroMinutes:   p.PomodoroMinutes,
		ShortBreakMinutes: p.ShortBreakMinutes,
		LongBreakMinutes:  p.LongBreakMinutes,
	}
	for i, ph := range p.PeakHours {
		iv, err := ph.interval()
		if err != nil {
			return planner.Preferences{}, fmt.Errorf("peak_hours[%d]: %w", i, err)
		}
		out.PeakHours = append(out.PeakHours, iv)
	}
	if err := out.Validate(); err != nil {
		return planner.Preferences{}, err
	}
	return out, nil
}

func FromPreferences(p planner.Preferences) PreferencesFile {
	out := PreferencesFile{
		DailyMinutes:      p.DailyMinutes,
		WorkingHours:      IntervalFile{Start: p.WorkingHours.Start.String(), End: p.WorkingHours.End.String()},
		PomodoroMinutes:   p.PomodoroMinutes,
		ShortBreakMinutes: p.ShortBreakMinutes,
		LongBreakMinutes:  p.LongBreakMinutes,
	}
	for _, ph := range p.PeakHours {
		out.PeakHours = append(out.PeakHours, IntervalFile{Start: ph.Start.String(), End: ph.End.String()})
	}
	return out
}

func (i IntervalFile) interval() (planner.Interval, error) {
	start, err := planner.ParseClock(i.Start)
	if err != nil {
		return planner.Interval{}, err
	}
	end, err := planner.ParseClock(i.End)
	if err != nil {
		return planner.Interval{}, err
	}
	return planner.Interval{Start: start, End: end}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
