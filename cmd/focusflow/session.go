package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

// session holds what every command needs: the loaded config, a logger and
// the open store.
type session struct {
	cfgPath string
	cfg     *config.Config
	log     logx.Logger
	store   *store.Store
}

var sess session

// skipStore lists commands that must work without opening the database.
var skipStore = map[string]bool{
	"init":       true,
	"path":       true,
	"help":       true,
	"completion": true,
}

func openSession(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	sess.cfgPath = path
	sess.cfg = cfg

	// The TUI owns the terminal, so it only logs when a file is configured.
	if isTUI(cmd) && cfg.Log.File == "" {
		sess.log = logx.Nop()
	} else if sess.log, err = logx.New(logx.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		return err
	}

	if skipStore[cmd.Name()] {
		return nil
	}

	s, err := store.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s.SetLogger(sess.log)
	prefs, err := cfg.Preferences.Preferences()
	if err != nil {
		s.Close()
		return err
	}
	if err := s.SeedPreferences(prefs); err != nil {
		s.Close()
		return err
	}
	sess.store = s
	sess.log.Debug("session opened", logx.String("config", path), logx.String("db", cfg.Database))
	return nil
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
	s.log.Close()
	s.log = logx.Logger{}
}

func isTUI(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}

// plan generates days of agenda from today using the stored tasks and
// preferences.
func (s *session) plan(from time.Time, days int) ([]planner.DailySchedule, []planner.Task, error) {
	tasks, err := s.store.ListTasks(true)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := s.store.GetPreferences()
	if err != nil {
		return nil, nil, err
	}
	out := planner.Generate(tasks, prefs, from, days, time.Now())
	s.log.Debug("plan generated", logx.Int("days", len(out)), logx.Int("tasks", len(tasks)))
	return out, tasks, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
