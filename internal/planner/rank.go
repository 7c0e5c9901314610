package planner

import (
	"sort"
	"time"
)

// Urgency scores how close a task's deadline is relative to now. Tasks
// without a deadline score 0, overdue tasks 100.
func Urgency(t Task, now time.Time) int {
	if t.Deadline == nil {
		return 0
	}
	// Whole minutes, truncated toward zero.
	minutes := int64(t.Deadline.Sub(now) / time.Minute)
	days := float64(minutes) / (24 * 60)
	switch {
	case days < 0:
		return 100
	case days < 1:
		return 90
	case days < 3:
		return 70
	case days < 7:
		return 50
	}
	return 30
}

// Score is the tie-breaker used between tasks of equal urgency.
func Score(t Task) int {
	return t.Priority.Weight() + t.Difficulty.Weight()
}

// Rank returns the tasks that still need work, most urgent first. Ties on
// urgency are broken by Score; remaining ties keep input order.
func Rank(tasks []Task, now time.Time) []Task {
	type ranked struct {
		task    Task
		urgency int
		score   int
	}
	rs := make([]ranked, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			continue
		}
		rs = append(rs, ranked{task: t, urgency: Urgency(t, now), score: Score(t)})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].urgency != rs[j].urgency {
			return rs[i].urgency > rs[j].urgency
		}
		return rs[i].score > rs[j].score
	})

	out := make([]Task, len(rs))
	for i, r := range rs {
		out[i] = r.task
	}
	return out
}
