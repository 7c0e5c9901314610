package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/planner"
)

var (
	dayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C63FF"))
	spanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	hardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	categoryStyles = map[planner.Category]lipgloss.Style{
		planner.CategoryWork:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C63FF")),
		planner.CategoryStudy:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2EC4B6")),
		planner.CategoryProject: lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12")),
	}
)

// renderPlan prints one section per day, breaks included.
func renderPlan(w io.Writer, days []planner.DailySchedule, tasks map[string]*planner.Task) {
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s  %s work, %s breaks",
			dayStyle.Render(d.Date.Format("Mon, Jan 02")),
			minutes(d.TotalMinutes), minutes(d.BreakMinutes))
		fmt.Fprintln(w, header)

		if len(d.Blocks) == 0 {
			fmt.Fprintln(w, mutedStyle.Render("  nothing scheduled"))
			continue
		}
		for _, b := range d.Blocks {
			fmt.Fprintln(w, renderBlock(b, tasks))
		}
	}
}

func renderBlock(b planner.Block, tasks map[string]*planner.Task) string {
	span := spanStyle.Render(fmt.Sprintf("%s-%s", b.Start, b.End))
	if b.IsBreak() {
		return fmt.Sprintf("  %s  %s", span, mutedStyle.Render(string(b.Break)+" break"))
	}
	t, ok := tasks[b.TaskID]
	if !ok {
		return fmt.Sprintf("  %s  %s", span, mutedStyle.Render(b.TaskID))
	}
	dot := categoryStyles[t.Category].Render("●")
	var tags []string
	tags = append(tags, string(t.Category), string(t.Priority))
	line := fmt.Sprintf("  %s  %s %s %s", span, dot, t.Title, mutedStyle.Render("("+strings.Join(tags, ", ")+")"))
	if t.Difficulty == planner.DifficultyHard {
		line += " " + hardStyle.Render("hard")
	}
	return line
}

func minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func indexTasks(tasks []planner.Task) map[string]*planner.Task {
	idx := make(map[string]*planner.Task, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = &tasks[i]
	}
	return idx
}
