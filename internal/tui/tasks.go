package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

const deadlineLayout = "2006-01-02"

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks           []planner.Task
	cursor          int
	subCursor       int
	showCompleted   bool
	viewingSubtasks bool

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle      *string
	formDesc       *string
	formCategory   *planner.Category
	formMinutes    *string
	formPriority   *planner.Priority
	formDifficulty *planner.Difficulty
	formDeadline   *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, desc, minutes, deadline := "", "", "", ""
	cat, prio, diff := planner.CategoryWork, planner.PriorityMedium, planner.DifficultyMedium
	return tasksModel{
		store:          s,
		formTitle:      &title,
		formDesc:       &desc,
		formCategory:   &cat,
		formMinutes:    &minutes,
		formPriority:   &prio,
		formDifficulty: &diff,
		formDeadline:   &deadline,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []planner.Task
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListTasks(m.showCompleted)
		return tasksDataMsg{tasks: tasks}
	}
}

func (m tasksModel) selected() (planner.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return planner.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		if t, ok := m.selected(); ok && m.subCursor >= len(t.Subtasks) {
			m.subCursor = max(0, len(t.Subtasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingSubtasks {
			return m.updateSubtaskView(msg)
		}
		return m.updateTaskList(msg)
	}
	return m, nil
}

func (m tasksModel) updateTaskList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(msg, keys.ShowAll):
		m.showCompleted = !m.showCompleted
		return m, m.refresh()
	case key.Matches(msg, keys.Enter):
		if t, ok := m.selected(); ok && len(t.Subtasks) > 0 {
			m.viewingSubtasks = true
			m.subCursor = 0
		}
	case key.Matches(msg, keys.Start):
		return m.setStatus(planner.StatusInProgress)
	case key.Matches(msg, keys.Done):
		return m.setStatus(planner.StatusCompleted)
	case key.Matches(msg, keys.Split):
		if t, ok := m.selected(); ok {
			return m, m.mutate(func() error {
				split, err := m.store.SplitTask(t.ID)
				if err == nil && len(split.Subtasks) == 0 {
					return errors.New("task is short enough already")
				}
				return err
			}, "Task split")
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.mutate(func() error { return m.store.DeleteTask(t.ID) }, "Task deleted")
		}
	}
	return m, nil
}

func (m tasksModel) updateSubtaskView(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		m.viewingSubtasks = false
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingSubtasks = false
	case key.Matches(msg, keys.Up):
		if m.subCursor > 0 {
			m.subCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.subCursor < len(t.Subtasks)-1 {
			m.subCursor++
		}
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Done):
		if m.subCursor < len(t.Subtasks) {
			st := t.Subtasks[m.subCursor]
			return m, m.mutate(func() error { return m.store.SetSubtaskCompleted(st.ID, !st.Completed) }, "")
		}
	}
	return m, nil
}

func (m tasksModel) setStatus(status planner.Status) (tasksModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	text := "Task started"
	if status == planner.StatusCompleted {
		text = "Task completed"
	}
	return m, m.mutate(func() error { return m.store.SetTaskStatus(t.ID, status) }, text)
}

// mutate runs fn against the store and reports the outcome. Successful
// changes also tell the rest of the app that tasks changed.
func (m tasksModel) mutate(fn func() error, done string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if done != "" {
			return tea.BatchMsg{
				m.refresh(),
				func() tea.Msg { return tasksChangedMsg{} },
				func() tea.Msg { return statusMsg{text: done} },
			}
		}
		return tea.BatchMsg{m.refresh(), func() tea.Msg { return tasksChangedMsg{} }}
	}
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDesc = ""
	*m.formCategory = planner.CategoryWork
	*m.formMinutes = "25"
	*m.formPriority = planner.PriorityMedium
	*m.formDifficulty = planner.DifficultyMedium
	*m.formDeadline = ""

	catOptions := make([]huh.Option[planner.Category], len(planner.Categories))
	for i, c := range planner.Categories {
		catOptions[i] = huh.NewOption(string(c), c)
	}
	prioOptions := make([]huh.Option[planner.Priority], len(planner.Priorities))
	for i, p := range planner.Priorities {
		prioOptions[i] = huh.NewOption(string(p), p)
	}
	diffOptions := make([]huh.Option[planner.Difficulty], len(planner.Difficulties))
	for i, d := range planner.Difficulties {
		diffOptions[i] = huh.NewOption(string(d), d)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(validateTitle),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewInput().Title("Estimated minutes").Value(m.formMinutes).Validate(validateMinutes),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").Value(m.formDeadline).Validate(validateDeadline),
		),
		huh.NewGroup(
			huh.NewSelect[planner.Category]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewSelect[planner.Priority]().Title("Priority").Options(prioOptions...).Value(m.formPriority),
			huh.NewSelect[planner.Difficulty]().Title("Difficulty").Options(diffOptions...).Value(m.formDifficulty),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		nt, err := m.formTask()
		if err != nil {
			return m, func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
		}
		return m, m.mutate(func() error {
			_, err := m.store.CreateTask(nt)
			return err
		}, "Task added")
	}

	return m, cmd
}

func (m tasksModel) formTask() (store.NewTask, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(*m.formMinutes))
	if err != nil {
		return store.NewTask{}, fmt.Errorf("estimated minutes: %w", err)
	}
	nt := store.NewTask{
		Title:            *m.formTitle,
		Description:      *m.formDesc,
		Category:         *m.formCategory,
		EstimatedMinutes: minutes,
		Priority:         *m.formPriority,
		Difficulty:       *m.formDifficulty,
	}
	if d := strings.TrimSpace(*m.formDeadline); d != "" {
		// Due by the end of the given day.
		t, err := time.ParseInLocation(deadlineLayout, d, time.Local)
		if err != nil {
			return store.NewTask{}, fmt.Errorf("deadline: %w", err)
		}
		t = t.Add(24*time.Hour - time.Minute)
		nt.Deadline = &t
	}
	return nt, nil
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of minutes")
	}
	return nil
}

func validateDeadline(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(deadlineLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Task"), "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingSubtasks {
		return m.renderSubtaskView()
	}
	return m.renderTaskList()
}

func (m tasksModel) renderTaskList() string {
	w := m.width - 4
	title := titleStyle.Render("Tasks")
	if m.showCompleted {
		title += mutedStyle.Render("  (including completed)")
	}

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-28s %-8s %-7s %-7s %7s  %-10s", "", "Title", "Category", "Prio", "Diff", "Est", "Deadline"))
	rows = append(rows, header)

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if t.Status == planner.StatusCompleted {
			style = doneItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(categoryColor(t.Category)).Render("●")
		prio := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(fmt.Sprintf("%-7s", t.Priority))
		deadline := "-"
		if t.Deadline != nil {
			deadline = t.Deadline.Local().Format(deadlineLayout)
		}
		name := truncate(t.Title, 28)
		if len(t.Subtasks) > 0 {
			name = truncate(fmt.Sprintf("%s [%d]", t.Title, len(t.Subtasks)), 28)
		}
		row := fmt.Sprintf("%s%s %s %-8s %s %-7s %7s  %-10s %s",
			cursor, dot, style.Render(fmt.Sprintf("%-28s", name)), t.Category, prio, t.Difficulty,
			formatMinutes(t.EstimatedMinutes), deadline, statusMark(t.Status))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  s: start  c: complete  x: split  d: delete  a: completed  enter: parts"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func statusMark(s planner.Status) string {
	switch s {
	case planner.StatusInProgress:
		return warningStyle.Render("●")
	case planner.StatusCompleted:
		return successStyle.Render("✓")
	}
	return mutedStyle.Render("○")
}

func (m tasksModel) renderSubtaskView() string {
	w := m.width - 4
	t, _ := m.selected()
	title := titleStyle.Render(fmt.Sprintf("%s: Parts", t.Title))

	var rows []string
	rows = append(rows, title, "")

	for i, st := range t.Subtasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.subCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := "[ ]"
		if st.Completed {
			mark = successStyle.Render("[x]")
			style = doneItemStyle
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", cursor, mark, style.Render(st.Title), mutedStyle.Render(formatMinutes(st.EstimatedMinutes))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: toggle done  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
