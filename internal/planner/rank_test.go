package planner

import (
	"testing"
	"time"
)

func withDeadline(t Task, d time.Duration) Task {
	dl := testNow.Add(d)
	t.Deadline = &dl
	return t
}

func TestUrgency(t *testing.T) {
	base := newTask("a", 30, PriorityMedium, DifficultyMedium)
	tests := []struct {
		name string
		task Task
		want int
	}{
		{"no deadline", base, 0},
		{"overdue", withDeadline(base, -2*time.Hour), 100},
		{"less than a minute ago", withDeadline(base, -30*time.Second), 90},
		{"later today", withDeadline(base, 5*time.Hour), 90},
		{"exactly one day", withDeadline(base, 24*time.Hour), 70},
		{"two days", withDeadline(base, 48*time.Hour), 70},
		{"three days", withDeadline(base, 72*time.Hour), 50},
		{"six days", withDeadline(base, 6*24*time.Hour), 50},
		{"seven days", withDeadline(base, 7*24*time.Hour), 30},
		{"next month", withDeadline(base, 30*24*time.Hour), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.task, testNow); got != tt.want {
				t.Errorf("Urgency = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		p    Priority
		d    Difficulty
		want int
	}{
		{PriorityLow, DifficultyEasy, 2},
		{PriorityMedium, DifficultyMedium, 4},
		{PriorityHigh, DifficultyEasy, 4},
		{PriorityUrgent, DifficultyHard, 7},
	}
	for _, tt := range tests {
		if got := Score(newTask("x", 10, tt.p, tt.d)); got != tt.want {
			t.Errorf("Score(%s, %s) = %d, want %d", tt.p, tt.d, got, tt.want)
		}
	}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestRankOrdersByUrgencyThenScore(t *testing.T) {
	tasks := []Task{
		newTask("plain-low", 30, PriorityLow, DifficultyEasy),
		withDeadline(newTask("week", 30, PriorityLow, DifficultyEasy), 5*24*time.Hour),
		newTask("plain-urgent", 30, PriorityUrgent, DifficultyHard),
		withDeadline(newTask("overdue", 30, PriorityLow, DifficultyEasy), -time.Hour),
		withDeadline(newTask("tomorrow", 30, PriorityLow, DifficultyEasy), 30*time.Hour),
	}

	got := ids(Rank(tasks, testNow))
	want := []string{"overdue", "tomorrow", "week", "plain-urgent", "plain-low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank = %v, want %v", got, want)
		}
	}
}

func TestRankIsStable(t *testing.T) {
	tasks := []Task{
		newTask("1", 30, PriorityMedium, DifficultyEasy),
		newTask("2", 30, PriorityLow, DifficultyMedium),
		newTask("3", 30, PriorityMedium, DifficultyEasy),
		newTask("4", 30, PriorityHigh, DifficultyHard),
	}

	got := ids(Rank(tasks, testNow))
	want := []string{"4", "1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank = %v, want %v", got, want)
		}
	}
}

func TestRankDropsCompleted(t *testing.T) {
	done := newTask("done", 30, PriorityUrgent, DifficultyHard)
	done.Status = StatusCompleted
	started := newTask("started", 30, PriorityLow, DifficultyEasy)
	started.Status = StatusInProgress

	got := Rank([]Task{done, started}, testNow)
	if len(got) != 1 || got[0].ID != "started" {
		t.Fatalf("Rank = %v, want [started]", ids(got))
	}
}

func TestRankUsesGivenNow(t *testing.T) {
	task := withDeadline(newTask("a", 30, PriorityLow, DifficultyEasy), 10*24*time.Hour)
	other := newTask("b", 30, PriorityUrgent, DifficultyHard)

	// Seen from nine days later the deadline is imminent.
	later := testNow.Add(9*24*time.Hour + 12*time.Hour)
	if Urgency(task, later) != 90 {
		t.Fatalf("Urgency from later = %d, want 90", Urgency(task, later))
	}
	got := ids(Rank([]Task{other, task}, testNow))
	if got[0] != "a" {
		t.Fatalf("Rank = %v, deadline task should still lead", got)
	}
}
