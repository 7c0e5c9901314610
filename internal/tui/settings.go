package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	values     map[string]string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyMinutes *string
	workStart    *string
	workEnd      *string
	peakHours    *string
	pomodoro     *string
	shortBreak   *string
	longBreak    *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dm, ws, we, ph := "", "", "", ""
	pm, sb, lb := "", "", ""
	return settingsModel{
		store:        s,
		values:       store.PreferencesToSettings(planner.DefaultPreferences()),
		dailyMinutes: &dm,
		workStart:    &ws,
		workEnd:      &we,
		peakHours:    &ph,
		pomodoro:     &pm,
		shortBreak:   &sb,
		longBreak:    &lb,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	values map[string]string
	err    error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		p, err := s.store.GetPreferences()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		return settingsDataMsg{values: store.PreferencesToSettings(p)}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Settings error: %v", msg.err), isError: true}
			}
		}
		s.values = msg.values
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.dailyMinutes = s.values["daily_minutes"]
	*s.workStart = s.values["working_start"]
	*s.workEnd = s.values["working_end"]
	*s.peakHours = s.values["peak_hours"]
	*s.pomodoro = s.values["pomodoro_minutes"]
	*s.shortBreak = s.values["short_break_minutes"]
	*s.longBreak = s.values["long_break_minutes"]

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily budget (min)").Value(s.dailyMinutes).Validate(positiveInt),
			huh.NewInput().Title("Working hours start (HH:MM)").Value(s.workStart).Validate(validClock),
			huh.NewInput().Title("Working hours end (HH:MM)").Value(s.workEnd).Validate(validClock),
			huh.NewInput().Title("Peak hours (HH:MM-HH:MM, comma-separated)").Value(s.peakHours).Validate(validPeaks),
		).Title("Day"),
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro length (min)").Value(s.pomodoro).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreak).Validate(nonNegativeInt),
			huh.NewInput().Title("Long break (min)").Value(s.longBreak).Validate(nonNegativeInt),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.savePreferences(); err != nil {
			return s, func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return tasksChangedMsg{} },
			func() tea.Msg { return statusMsg{text: "Preferences saved"} },
		)
	}

	return s, cmd
}

// savePreferences stores the form only if the whole set validates.
func (s settingsModel) savePreferences() error {
	p, err := store.PreferencesFromSettings(s.formValues())
	if err != nil {
		return err
	}
	return s.store.SetPreferences(p)
}

func (s settingsModel) formValues() map[string]string {
	return map[string]string{
		"daily_minutes":       strings.TrimSpace(*s.dailyMinutes),
		"working_start":       strings.TrimSpace(*s.workStart),
		"working_end":         strings.TrimSpace(*s.workEnd),
		"peak_hours":          strings.TrimSpace(*s.peakHours),
		"pomodoro_minutes":    strings.TrimSpace(*s.pomodoro),
		"short_break_minutes": strings.TrimSpace(*s.shortBreak),
		"long_break_minutes":  strings.TrimSpace(*s.longBreak),
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit preferences")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, subtitleStyle.Render("Changes apply the next time the agenda is replanned"))
	rows = append(rows, "")

	for _, k := range store.PreferenceKeys {
		label := lipgloss.NewStyle().Width(24).Render(k)
		value := highlightStyle.Render(formatSettingValue(k, s.values[k]))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "daily_minutes":
		if m, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min (%s)", m, formatHours(m))
		}
	case "pomodoro_minutes", "short_break_minutes", "long_break_minutes":
		if _, err := strconv.Atoi(v); err == nil {
			return v + " min"
		}
	case "peak_hours":
		if v == "" {
			return "none"
		}
		return strings.ReplaceAll(v, ",", ", ")
	}
	return v
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter zero or a positive whole number")
	}
	return nil
}

func validClock(s string) error {
	_, err := planner.ParseClock(strings.TrimSpace(s))
	return err
}

func validPeaks(s string) error {
	n := 0
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := planner.ParseInterval(part); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		return errors.New("at least one window is required")
	}
	return nil
}
