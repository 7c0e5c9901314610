package store

import (
	"time"

	"github.com/sadopc/focusflow/internal/planner"
)

// NewTask is the user-supplied part of a task; the store fills in the rest.
type NewTask struct {
	Title            string
	Description      string
	Category         planner.Category
	Deadline         *time.Time
	EstimatedMinutes int
	Priority         planner.Priority
	Difficulty       planner.Difficulty
}

type Setting struct {
	Key   string
	Value string
}

// ScheduleFilter selects stored schedule days by date, From inclusive and
// To exclusive. Zero values leave that side open.
type ScheduleFilter struct {
	From time.Time
	To   time.Time
}

const dateLayout = "2006-01-02"
