package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

const reportSpan = 7

type reportsModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	days   []planner.DailySchedule
	tasks  map[string]*planner.Task
	offset int // 7-day windows from today; negative looks back

	chart barchart.Model
}

// categoryMinutes is one row of the summary: planned work for a category on
// one day.
type categoryMinutes struct {
	date     time.Time
	category planner.Category
	minutes  int
	blocks   int
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		now:   time.Now,
		tasks: map[string]*planner.Task{},
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days  []planner.DailySchedule
	tasks []planner.Task
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		days, _ := r.store.ListSchedules(store.ScheduleFilter{From: from, To: to})
		tasks, _ := r.store.ListTasks(true)
		return reportsDataMsg{days: days, tasks: tasks}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, reportSpan*r.offset)
	return start, start.AddDate(0, 0, reportSpan)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.tasks = taskIndex(msg.tasks)
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset--
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			r.offset++
			return r, r.refresh()
		}
	}
	return r, nil
}

// breakdown sums work blocks per day and category, in date then category
// order. Blocks of deleted tasks are left out.
func (r reportsModel) breakdown() []categoryMinutes {
	var out []categoryMinutes
	for _, d := range r.days {
		for _, c := range planner.Categories {
			row := categoryMinutes{date: d.Date, category: c}
			for _, b := range d.WorkBlocks() {
				if t, ok := r.tasks[b.TaskID]; ok && t.Category == c {
					row.minutes += b.Minutes()
					row.blocks++
				}
			}
			if row.blocks > 0 {
				out = append(out, row)
			}
		}
	}
	return out
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	rows := r.breakdown()
	from, to := r.dateRange()

	// Build bars for each day in range
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		var values []barchart.BarValue
		for _, row := range rows {
			if row.date.Equal(d) {
				values = append(values, barchart.BarValue{
					Name:  string(row.category),
					Value: float64(row.minutes) / 60,
					Style: lipgloss.NewStyle().Foreground(categoryColor(row.category)),
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Planned hours"), "  ", dateLabel,
	)

	rows := r.breakdown()

	nav := mutedStyle.Render("  ←/→: previous/next week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", renderLegend(), "", renderSummaryTable(rows, w), "", nav,
		),
	)
}

func renderSummaryTable(rows []categoryMinutes, w int) string {
	if len(rows) == 0 {
		return mutedStyle.Render("  No plan stored for this period")
	}

	var lines []string
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %10s %8s", "Date", "Category", "Planned", "Blocks")))
	lines = append(lines, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	var total int
	for _, row := range rows {
		dot := lipgloss.NewStyle().Foreground(categoryColor(row.category)).Render("●")
		lines = append(lines, fmt.Sprintf("  %-12s %s %-8s %10s %8d",
			row.date.Format("2006-01-02"), dot, row.category, formatMinutes(row.minutes), row.blocks,
		))
		total += row.minutes
	}
	lines = append(lines, fmt.Sprintf("  %-12s %-10s %10s", "Total", "", highlightStyle.Render(formatHours(total))))

	return strings.Join(lines, "\n")
}

func renderLegend() string {
	var items []string
	for _, c := range planner.Categories {
		dot := lipgloss.NewStyle().Foreground(categoryColor(c)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, c))
	}
	return "  " + strings.Join(items, "  ")
}
