package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

// run executes the root command against a throwaway config and database.
// Flag variables are package globals, so they are reset to their defaults
// before every invocation.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	full := append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "focusflow.db"),
		"--log-level", "error",
	}, args...)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(full)
	err := rootCmd.Execute()
	sess.close()
	return out.String(), err
}

func resetFlags() {
	taskTitle, taskDesc, taskDeadline = "", "", ""
	taskCategory = string(planner.CategoryWork)
	taskPriority = string(planner.PriorityMedium)
	taskDifficulty = string(planner.DifficultyMedium)
	taskMinutes = 0
	taskAll = false
	planDays, planFrom, planSave = 0, "", false
	exportFormat, exportOut, exportDays, exportFrom = "csv", "", 0, ""
	configForce = false
}

// ============================================================
// Commands
// ============================================================

func TestTaskLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "task", "add", "--title", "Write report", "--minutes", "60", "--difficulty", "hard")
	if err != nil {
		t.Fatalf("task add: %v", err)
	}
	id := strings.TrimSpace(strings.TrimPrefix(out, "Created task:"))
	if id == "" {
		t.Fatalf("no id in output %q", out)
	}

	out, err = run(t, dir, "task", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Write report") || !strings.Contains(out, id[:8]) {
		t.Fatalf("list output missing task:\n%s", out)
	}

	if _, err := run(t, dir, "task", "start", id[:8]); err != nil {
		t.Fatalf("task start by prefix: %v", err)
	}
	if _, err := run(t, dir, "task", "done", id); err != nil {
		t.Fatalf("task done: %v", err)
	}
	if _, err := run(t, dir, "task", "start", id); !errors.Is(err, store.ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}
	if _, err := run(t, dir, "task", "rm", id); err != nil {
		t.Fatalf("task rm: %v", err)
	}
	if _, err := run(t, dir, "task", "rm", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskAddRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "task", "add", "--title", "x", "--minutes", "10", "--priority", "critical")
	if !errors.Is(err, store.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
}

func TestPlanAndExport(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "task", "add", "--title", "Read paper", "--minutes", "50", "--category", "study"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "plan", "--days", "2", "--from", "2026-06-01", "--save")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, want := range []string{"Mon, Jun 01", "Read paper", "08:00-08:25", "short break", "nothing scheduled"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plan output missing %q:\n%s", want, out)
		}
	}

	s, err := store.New(filepath.Join(dir, "focusflow.db"))
	if err != nil {
		t.Fatal(err)
	}
	saved, _ := s.ListSchedules(store.ScheduleFilter{})
	s.Close()
	if len(saved) != 2 || saved[0].TotalMinutes != 50 {
		t.Fatalf("unexpected saved plan: %+v", saved)
	}

	csvPath := filepath.Join(dir, "plan.csv")
	out, err = run(t, dir, "export", "--format", "csv", "--out", csvPath, "--days", "1", "--from", "2026-06-01")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 days") {
		t.Fatalf("unexpected export output %q", out)
	}

	if _, err := run(t, dir, "export", "--format", "xml", "--out", csvPath); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPrefsSetAndShow(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "prefs", "set", "daily_minutes=300", "peak_hours=08:00-10:00,14:00-15:00"); err != nil {
		t.Fatalf("prefs set: %v", err)
	}
	out, err := run(t, dir, "prefs", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "300") || !strings.Contains(out, "08:00-10:00,14:00-15:00") {
		t.Fatalf("prefs show output:\n%s", out)
	}

	if _, err := run(t, dir, "prefs", "set", "working_start=19:00"); !errors.Is(err, planner.ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Plan.Days != 7 {
		t.Fatalf("plan days = %d", cfg.Plan.Days)
	}
	if _, err := run(t, dir, "config", "init"); err == nil {
		t.Fatal("second init without --force should fail")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestParseDeadline(t *testing.T) {
	d, err := parseDeadline("")
	if err != nil || d != nil {
		t.Fatalf("empty deadline: %v, %v", d, err)
	}

	d, err = parseDeadline("2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Format("2006-01-02 15:04"); got != "2026-03-10 23:59" {
		t.Fatalf("date-only deadline = %s", got)
	}

	d, err = parseDeadline("2026-03-10T09:30")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Format("2006-01-02 15:04"); got != "2026-03-10 09:30" {
		t.Fatalf("deadline = %s", got)
	}

	if _, err := parseDeadline("next friday"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMatchID(t *testing.T) {
	tasks := []planner.Task{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"abc123", "abc123", false},
		{"abc", "abc123", false},
		{"x", "xyz", false},
		{"ab", "", true},
		{"zzz", "", true},
		{" ", "", true},
	}
	for _, tt := range tests {
		got, err := matchID(tasks, tt.ref)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("matchID(%q) = %q, %v", tt.ref, got, err)
		}
	}
	if _, err := matchID(tasks, "zzz"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing id should wrap ErrNotFound, got %v", err)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"daily_minutes=300", " pomodoro_minutes = 50 "})
	if err != nil {
		t.Fatal(err)
	}
	if got["daily_minutes"] != "300" || got["pomodoro_minutes"] != "50" {
		t.Fatalf("unexpected: %v", got)
	}
	for _, bad := range []string{"daily_minutes", "=5", "colour=red"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("parseAssignments(%q) should fail", bad)
		}
	}
}

func TestRenderPlan(t *testing.T) {
	d := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.Local)
	days := []planner.DailySchedule{
		{
			Date: d,
			Blocks: []planner.Block{
				{TaskID: "a", Date: d, Start: planner.MustParseClock("09:00"), End: planner.MustParseClock("09:25")},
				{Date: d, Start: planner.MustParseClock("09:25"), End: planner.MustParseClock("09:40"), Break: planner.LongBreak},
				{TaskID: "gone", Date: d, Start: planner.MustParseClock("09:40"), End: planner.MustParseClock("10:00")},
			},
			TotalMinutes: 45,
			BreakMinutes: 15,
		},
	}
	tasks := map[string]*planner.Task{
		"a": {ID: "a", Title: "Proof", Category: planner.CategoryStudy, Priority: planner.PriorityHigh, Difficulty: planner.DifficultyHard},
	}

	var buf bytes.Buffer
	renderPlan(&buf, days, tasks)
	out := buf.String()
	for _, want := range []string{"Mon, Jun 01", "45m work, 15m breaks", "Proof", "study, high", "hard", "long break", "gone"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMinutes(t *testing.T) {
	if minutes(45) != "45m" || minutes(60) != "1h 00m" || minutes(135) != "2h 15m" {
		t.Fatal("minutes formatting")
	}
}
