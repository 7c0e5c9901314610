package planner

import "fmt"

const (
	// Tasks up to this long are never split.
	decomposeThreshold = 60
	// Target length of one part of a split task.
	decomposePartMinutes = 45
)

// Decompose splits a long task into roughly 45 minute parts. Part lengths
// are floored, so their sum may fall a few minutes short of the task's own
// estimate. Short tasks come back unchanged.
func Decompose(t Task) Task {
	if t.EstimatedMinutes <= decomposeThreshold {
		return t
	}

	n := (t.EstimatedMinutes + decomposePartMinutes - 1) / decomposePartMinutes
	each := t.EstimatedMinutes / n

	subtasks := make([]Subtask, n)
	for i := range subtasks {
		subtasks[i] = Subtask{
			ID:               fmt.Sprintf("%s-sub-%d", t.ID, i),
			Title:            fmt.Sprintf("%s - Part %d", t.Title, i+1),
			EstimatedMinutes: each,
		}
	}
	t.Subtasks = subtasks
	return t
}
