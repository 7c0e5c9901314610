package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/focusflow/internal/planner"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetPreferences assembles planner preferences from the settings table.
func (s *Store) GetPreferences() (planner.Preferences, error) {
	settings, err := s.GetAllSettings()
	if err != nil {
		return planner.Preferences{}, err
	}
	kv := make(map[string]string, len(settings))
	for _, st := range settings {
		kv[st.Key] = st.Value
	}
	p, err := PreferencesFromSettings(kv)
	if err != nil {
		return planner.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// SetPreferences validates p and stores every field.
func (s *Store) SetPreferences(p planner.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for k, v := range PreferencesToSettings(p) {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		)
		if err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// SeedPreferences writes only the keys that were never stored, so values
// from a config file never overwrite choices made in the app.
func (s *Store) SeedPreferences(p planner.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for k, v := range PreferencesToSettings(p) {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("seed setting %q: %w", k, err)
		}
	}
	return nil
}

// PreferenceKeys lists the settings keys that make up planner preferences.
var PreferenceKeys = []string{
	"daily_minutes",
	"working_start",
	"working_end",
	"peak_hours",
	"pomodoro_minutes",
	"short_break_minutes",
	"long_break_minutes",
}

func PreferencesToSettings(p planner.Preferences) map[string]string {
	peaks := make([]string, len(p.PeakHours))
	for i, ph := range p.PeakHours {
		peaks[i] = ph.String()
	}
	return map[string]string{
		"daily_minutes":       strconv.Itoa(p.DailyMinutes),
		"working_start":       p.WorkingHours.Start.String(),
		"working_end":         p.WorkingHours.End.String(),
		"peak_hours":          strings.Join(peaks, ","),
		"pomodoro_minutes":    strconv.Itoa(p.PomodoroMinutes),
		"short_break_minutes": strconv.Itoa(p.ShortBreakMinutes),
		"long_break_minutes":  strconv.Itoa(p.LongBreakMinutes),
	}
}

// PreferencesFromSettings parses the settings form. Missing keys fall back
// to planner.DefaultPreferences; the result is validated.
func PreferencesFromSettings(kv map[string]string) (planner.Preferences, error) {
	p := planner.DefaultPreferences()

	ints := map[string]*int{
		"daily_minutes":       &p.DailyMinutes,
		"pomodoro_minutes":    &p.PomodoroMinutes,
		"short_break_minutes": &p.ShortBreakMinutes,
		"long_break_minutes":  &p.LongBreakMinutes,
	}
	for k, dst := range ints {
		v, ok := kv[k]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return planner.Preferences{}, fmt.Errorf("%s: %w", k, err)
		}
		*dst = n
	}

	clocks := map[string]*planner.Clock{
		"working_start": &p.WorkingHours.Start,
		"working_end":   &p.WorkingHours.End,
	}
	for k, dst := range clocks {
		v, ok := kv[k]
		if !ok {
			continue
		}
		c, err := planner.ParseClock(v)
		if err != nil {
			return planner.Preferences{}, fmt.Errorf("%s: %w", k, err)
		}
		*dst = c
	}

	if v, ok := kv["peak_hours"]; ok {
		p.PeakHours = nil
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			iv, err := planner.ParseInterval(part)
			if err != nil {
				return planner.Preferences{}, fmt.Errorf("peak_hours: %w", err)
			}
			p.PeakHours = append(p.PeakHours, iv)
		}
	}

	if err := p.Validate(); err != nil {
		return planner.Preferences{}, err
	}
	return p, nil
}
