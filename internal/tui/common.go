package tui

import (
	"fmt"

	"github.com/sadopc/focusflow/internal/planner"
)

// viewState represents the currently active view.
type viewState int

const (
	viewAgenda viewState = iota
	viewTasks
	viewReports
	viewSettings
)

var viewNames = []string{"Agenda", "Tasks", "Reports", "Settings"}

// --- Messages ---

// ConfigChangedMsg is sent by the caller when the config file was reloaded.
// The agenda adopts the new horizon and replans.
type ConfigChangedMsg struct {
	Days int
}

type tasksChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatMinutes renders 95 as "1h 35m" and 40 as "40m".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func formatHours(m int) string {
	return fmt.Sprintf("%.1fh", float64(m)/60)
}

func taskIndex(tasks []planner.Task) map[string]*planner.Task {
	idx := make(map[string]*planner.Task, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = &tasks[i]
	}
	return idx
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
