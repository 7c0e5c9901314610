package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/motivation"
	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

type agendaModel struct {
	store  *store.Store
	log    logx.Logger
	picker *motivation.Picker
	now    func() time.Time
	width  int
	height int

	horizon int
	days    []planner.DailySchedule
	tasks   map[string]*planner.Task
	all     []planner.Task
	prefs   planner.Preferences
	day     int // index into days
	message string
}

func newAgendaModel(s *store.Store, log logx.Logger, picker *motivation.Picker, horizon int) agendaModel {
	return agendaModel{
		store:   s,
		log:     log,
		picker:  picker,
		now:     time.Now,
		horizon: horizon,
		tasks:   map[string]*planner.Task{},
		prefs:   planner.DefaultPreferences(),
		message: picker.Next(),
	}
}

func (a agendaModel) Init() tea.Cmd {
	return a.loadData(false)
}

func (a *agendaModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type agendaDataMsg struct {
	days  []planner.DailySchedule
	tasks []planner.Task
	prefs planner.Preferences
	err   error
}

// loadData shows the stored plan for the horizon. A fresh plan is generated
// and saved when replan is set or the stored plan does not cover every day
// from today to the end of the horizon.
func (a agendaModel) loadData(replan bool) tea.Cmd {
	return func() tea.Msg {
		now := a.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		tasks, err := a.store.ListTasks(true)
		if err != nil {
			return agendaDataMsg{err: err}
		}
		prefs, err := a.store.GetPreferences()
		if err != nil {
			return agendaDataMsg{err: err}
		}

		if !replan {
			stored, err := a.store.ListSchedules(store.ScheduleFilter{From: today, To: today.AddDate(0, 0, a.horizon)})
			if err != nil {
				return agendaDataMsg{err: err}
			}
			if len(stored) == a.horizon && stored[0].Date.Equal(today) {
				return agendaDataMsg{days: stored, tasks: tasks, prefs: prefs}
			}
		}

		days := planner.Generate(tasks, prefs, today, a.horizon, now)
		if err := a.store.SaveSchedules(days); err != nil {
			return agendaDataMsg{err: err}
		}
		a.log.Info("agenda planned", logx.Int("days", len(days)), logx.Int("tasks", len(tasks)))
		return agendaDataMsg{days: days, tasks: tasks, prefs: prefs}
	}
}

func (a agendaModel) update(msg tea.Msg) (agendaModel, tea.Cmd) {
	switch msg := msg.(type) {
	case agendaDataMsg:
		if msg.err != nil {
			return a, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Plan error: %v", msg.err), isError: true}
			}
		}
		a.days = msg.days
		a.all = msg.tasks
		a.tasks = taskIndex(msg.tasks)
		a.prefs = msg.prefs
		if a.day >= len(a.days) {
			a.day = max(0, len(a.days)-1)
		}
		return a, nil

	case ConfigChangedMsg:
		if msg.Days > 0 && msg.Days != a.horizon {
			a.horizon = msg.Days
			return a, a.loadData(true)
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if a.day > 0 {
				a.day--
			}
		case key.Matches(msg, keys.Right):
			if a.day < len(a.days)-1 {
				a.day++
			}
		case key.Matches(msg, keys.Regenerate):
			a.message = a.picker.Next()
			return a, tea.Batch(
				a.loadData(true),
				func() tea.Msg { return statusMsg{text: "Plan regenerated"} },
			)
		}
	}
	return a, nil
}

func (a agendaModel) current() (planner.DailySchedule, bool) {
	if a.day < 0 || a.day >= len(a.days) {
		return planner.DailySchedule{}, false
	}
	return a.days[a.day], true
}

func (a agendaModel) view() string {
	if a.width < 20 {
		return "Terminal too small"
	}

	contentWidth := a.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderDayPanel(contentWidth),
		a.renderSummaryPanel(contentWidth),
	)
}

func (a agendaModel) renderDayPanel(w int) string {
	day, ok := a.current()
	if !ok {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Agenda"),
			motivationStyle.Render(a.message),
			"",
			mutedStyle.Render("Nothing planned. Press r to plan."),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render(day.Date.Format("Monday, Jan 02"))
	pos := mutedStyle.Render(fmt.Sprintf("day %d/%d", a.day+1, len(a.days)))
	header := fmt.Sprintf("%s  %s", title, pos)

	var rows []string
	rows = append(rows, header, motivationStyle.Render(a.message), "")

	if len(day.Blocks) == 0 {
		rows = append(rows, mutedStyle.Render("No work scheduled for this day"))
	}
	for _, b := range day.Blocks {
		rows = append(rows, a.renderBlock(b, w))
	}

	rows = append(rows, "", mutedStyle.Render("  ←/→: day  r: replan"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (a agendaModel) renderBlock(b planner.Block, w int) string {
	span := fmt.Sprintf("%s-%s", b.Start, b.End)
	if b.IsBreak() {
		label := "Short break"
		if b.Break == planner.LongBreak {
			label = "Long break"
		}
		return breakStyle.Render(fmt.Sprintf("  %s  %s (%s)", span, label, formatMinutes(b.Minutes())))
	}

	t, ok := a.tasks[b.TaskID]
	if !ok {
		return fmt.Sprintf("  %s  %s", span, mutedStyle.Render("(deleted task)"))
	}
	dot := lipgloss.NewStyle().Foreground(categoryColor(t.Category)).Render("●")
	peak := ""
	if t.Difficulty == planner.DifficultyHard {
		peak = accentStyle.Render(" hard")
	}
	title := truncate(t.Title, max(10, w-30))
	style := normalItemStyle
	if t.Status == planner.StatusCompleted {
		style = doneItemStyle
	}
	return fmt.Sprintf("  %s %s %s%s  %s",
		highlightStyle.Render(span), dot, style.Render(title), peak, mutedStyle.Render(formatMinutes(b.Minutes())))
}

func (a agendaModel) renderSummaryPanel(w int) string {
	day, ok := a.current()
	if !ok {
		return ""
	}

	budget := a.prefs.DailyMinutes
	work := highlightStyle.Render(formatMinutes(day.TotalMinutes))
	rows := []string{
		fmt.Sprintf("%s  %s of %s  %s",
			titleStyle.Render("Day"), work, formatMinutes(budget),
			mutedStyle.Render(fmt.Sprintf("+ %s breaks", formatMinutes(day.BreakMinutes)))),
		fmt.Sprintf("  Completed: %s", successStyle.Render(fmt.Sprintf("%d%%", day.Completion(a.all)))),
	}

	var horizon int
	for _, d := range a.days {
		horizon += d.TotalMinutes
	}
	rows = append(rows, fmt.Sprintf("  Planned over %d days: %s", len(a.days), formatHours(horizon)))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
