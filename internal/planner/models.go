package planner

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPreferences = errors.New("invalid preferences")

type Category string

const (
	CategoryWork    Category = "work"
	CategoryStudy   Category = "study"
	CategoryProject Category = "project"
)

var Categories = []Category{CategoryWork, CategoryStudy, CategoryProject}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryStudy, CategoryProject:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Weight returns 1..4 for low..urgent, 0 for unknown values.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

func (p Priority) Valid() bool { return p.Weight() > 0 }

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Weight returns 1..3 for easy..hard, 0 for unknown values.
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

func (d Difficulty) Valid() bool { return d.Weight() > 0 }

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return 0
}

func (s Status) Valid() bool { return s.rank() > 0 }

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle
// monotonic. Staying in place is allowed.
func (s Status) CanAdvanceTo(next Status) bool {
	return s.Valid() && next.Valid() && next.rank() >= s.rank()
}

type Task struct {
	ID               string
	Title            string
	Description      string
	Category         Category
	Deadline         *time.Time
	EstimatedMinutes int
	Priority         Priority
	Difficulty       Difficulty
	Status           Status
	Subtasks         []Subtask
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

type Subtask struct {
	ID               string
	Title            string
	Completed        bool
	EstimatedMinutes int
}

type Preferences struct {
	DailyMinutes      int
	WorkingHours      Interval
	PeakHours         []Interval
	PomodoroMinutes   int
	ShortBreakMinutes int
	LongBreakMinutes  int
}

func DefaultPreferences() Preferences {
	return Preferences{
		DailyMinutes:      480,
		WorkingHours:      Interval{Start: 8 * 60, End: 18 * 60},
		PeakHours:         []Interval{{Start: 9 * 60, End: 12 * 60}},
		PomodoroMinutes:   25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
	}
}

// Validate checks the invariants Generate relies on. Generate itself does not
// call it; callers are expected to reject bad preferences before planning.
func (p Preferences) Validate() error {
	if p.DailyMinutes <= 0 {
		return fmt.Errorf("%w: daily minutes must be positive, got %d", ErrInvalidPreferences, p.DailyMinutes)
	}
	if p.PomodoroMinutes <= 0 {
		return fmt.Errorf("%w: pomodoro length must be positive, got %d", ErrInvalidPreferences, p.PomodoroMinutes)
	}
	if p.ShortBreakMinutes < 0 || p.LongBreakMinutes < 0 {
		return fmt.Errorf("%w: break lengths must not be negative", ErrInvalidPreferences)
	}
	if !p.WorkingHours.valid() {
		return fmt.Errorf("%w: working hours %s must start before they end", ErrInvalidPreferences, p.WorkingHours)
	}
	if len(p.PeakHours) == 0 {
		return fmt.Errorf("%w: at least one peak-focus window is required", ErrInvalidPreferences)
	}
	for _, peak := range p.PeakHours {
		if !peak.valid() {
			return fmt.Errorf("%w: peak hours %s must start before they end", ErrInvalidPreferences, peak)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	cp := p
	cp.PeakHours = append([]Interval(nil), p.PeakHours...)
	return cp
}

func (p Preferences) inPeak(c Clock) bool {
	for _, peak := range p.PeakHours {
		if peak.Contains(c) {
			return true
		}
	}
	return false
}

type BreakKind string

const (
	NoBreak    BreakKind = ""
	ShortBreak BreakKind = "short"
	LongBreak  BreakKind = "long"
)

// Block is one slot of a day: task work when Break is empty, a break otherwise.
type Block struct {
	TaskID string
	Date   time.Time
	Start  Clock
	End    Clock
	Break  BreakKind
}

func (b Block) IsBreak() bool { return b.Break != NoBreak }
func (b Block) Minutes() int  { return int(b.End - b.Start) }

type DailySchedule struct {
	Date         time.Time
	Blocks       []Block
	TotalMinutes int // work minutes only
	BreakMinutes int
}

func (d DailySchedule) WorkBlocks() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if !b.IsBreak() {
			out = append(out, b)
		}
	}
	return out
}

// Completion returns the share (0-100) of the day's work minutes that belong
// to tasks already completed.
func (d DailySchedule) Completion(tasks []Task) int {
	if d.TotalMinutes == 0 {
		return 0
	}
	done := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			done[t.ID] = true
		}
	}
	var minutes int
	for _, b := range d.WorkBlocks() {
		if done[b.TaskID] {
			minutes += b.Minutes()
		}
	}
	return minutes * 100 / d.TotalMinutes
}
