package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/motivation"
	"github.com/sadopc/focusflow/internal/planner"
	"github.com/sadopc/focusflow/internal/store"
)

var fixedNow = time.Date(2026, time.June, 1, 7, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestAgenda(s *store.Store, days int) agendaModel {
	a := newAgendaModel(s, logx.Nop(), motivation.New(1), days)
	a.now = func() time.Time { return fixedNow }
	return a
}

func addTask(t *testing.T, s *store.Store, title string, minutes int) *planner.Task {
	t.Helper()
	task, err := s.CreateTask(store.NewTask{Title: title, EstimatedMinutes: minutes})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{25, "25m"},
		{60, "1h 00m"},
		{95, "1h 35m"},
		{480, "8h 00m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0.0h"},
		{30, "0.5h"},
		{90, "1.5h"},
		{480, "8.0h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.in); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a long title", 6); got != "a lon…" {
		t.Fatalf("got %q", got)
	}
}

func TestViewNames(t *testing.T) {
	expected := []string{"Agenda", "Tasks", "Reports", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
	if viewAgenda != 0 || viewTasks != 1 || viewReports != 2 || viewSettings != 3 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Agenda model
// ============================================================

func TestAgendaGeneratesAndSaves(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Report", 60)
	a := newTestAgenda(s, 3)

	msg, ok := a.loadData(false)().(agendaDataMsg)
	if !ok || msg.err != nil {
		t.Fatalf("unexpected load result: %+v", msg)
	}
	if len(msg.days) != 3 || msg.days[0].TotalMinutes != 60 {
		t.Fatalf("unexpected plan: %+v", msg.days)
	}

	stored, _ := s.ListSchedules(store.ScheduleFilter{})
	if len(stored) != 3 {
		t.Fatalf("plan not saved: %d days stored", len(stored))
	}
}

func TestAgendaReusesStoredPlanUntilReplan(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Report", 60)
	a := newTestAgenda(s, 2)
	a.loadData(false)()

	addTask(t, s, "Review", 30)

	msg := a.loadData(false)().(agendaDataMsg)
	if msg.days[0].TotalMinutes != 60 {
		t.Fatalf("stored plan should be shown, got %d minutes", msg.days[0].TotalMinutes)
	}

	msg = a.loadData(true)().(agendaDataMsg)
	if msg.days[0].TotalMinutes != 90 {
		t.Fatalf("replan should include the new task, got %d minutes", msg.days[0].TotalMinutes)
	}
}

func TestAgendaReplansShortStoredPlan(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Report", 60)

	today := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, time.Local)
	tasks, _ := s.ListTasks(true)
	prefs, _ := s.GetPreferences()
	if err := s.SaveSchedules(planner.Generate(tasks, prefs, today, 1, fixedNow)); err != nil {
		t.Fatal(err)
	}

	a := newTestAgenda(s, 3)
	msg := a.loadData(false)().(agendaDataMsg)
	if msg.err != nil {
		t.Fatal(msg.err)
	}
	if len(msg.days) != 3 {
		t.Fatalf("expected the full 3-day horizon, got %d days", len(msg.days))
	}
	saved, _ := s.ListSchedules(store.ScheduleFilter{From: today})
	if len(saved) != 3 {
		t.Fatalf("replanned horizon should be stored, got %d days", len(saved))
	}
}

func TestAgendaUpdateAndPaging(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Report", 60)
	a := newTestAgenda(s, 3)
	a.setSize(100, 40)

	a, _ = a.update(a.loadData(false)())
	if len(a.days) != 3 || a.day != 0 {
		t.Fatalf("unexpected agenda state: days=%d day=%d", len(a.days), a.day)
	}

	a, _ = a.update(tea.KeyMsg{Type: tea.KeyLeft})
	if a.day != 0 {
		t.Fatal("should not page before the first day")
	}
	a, _ = a.update(tea.KeyMsg{Type: tea.KeyRight})
	a, _ = a.update(tea.KeyMsg{Type: tea.KeyRight})
	a, _ = a.update(tea.KeyMsg{Type: tea.KeyRight})
	if a.day != 2 {
		t.Fatalf("day = %d, want 2", a.day)
	}

	if out := a.view(); !strings.Contains(out, "No work scheduled") {
		t.Fatal("empty day should say so")
	}
}

func TestAgendaViewShowsBlocks(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Write report", 60)
	a := newTestAgenda(s, 1)
	a.setSize(120, 40)
	a, _ = a.update(a.loadData(false)())

	out := a.view()
	for _, want := range []string{"Write report", "08:00-08:25", "Short break", "Completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("agenda view missing %q", want)
		}
	}
}

func TestAgendaConfigChangedReplans(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgenda(s, 3)

	a, cmd := a.update(ConfigChangedMsg{Days: 5})
	if a.horizon != 5 || cmd == nil {
		t.Fatalf("horizon = %d, cmd = %v", a.horizon, cmd)
	}
	msg := cmd().(agendaDataMsg)
	if len(msg.days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(msg.days))
	}

	_, cmd = a.update(ConfigChangedMsg{Days: 5})
	if cmd != nil {
		t.Fatal("unchanged horizon should not replan")
	}
}

func TestAgendaRegenerateChangesNothingWithoutTasks(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgenda(s, 2)
	a, cmd := a.update(keyRunes("r"))
	if cmd == nil {
		t.Fatal("regenerate should return a command")
	}
	if a.message == "" {
		t.Fatal("motivational line should be set")
	}
}

// ============================================================
// Tasks model
// ============================================================

func TestTasksRefreshAndStatus(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Report", 60)

	m := newTasksModel(s)
	m, _ = m.update(m.refresh()())
	if len(m.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(m.tasks))
	}

	_, cmd := m.update(keyRunes("s"))
	cmd()
	got, _ := s.GetTask(task.ID)
	if got.Status != planner.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", got.Status)
	}

	_, cmd = m.update(keyRunes("c"))
	cmd()
	got, _ = s.GetTask(task.ID)
	if got.Status != planner.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}

	m, _ = m.update(m.refresh()())
	if len(m.tasks) != 0 {
		t.Fatal("completed tasks should be hidden by default")
	}
	m, cmd = m.update(keyRunes("a"))
	m, _ = m.update(cmd())
	if !m.showCompleted || len(m.tasks) != 1 {
		t.Fatalf("show completed = %v, tasks = %d", m.showCompleted, len(m.tasks))
	}
}

func TestTasksStatusRegressionReported(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Report", 60)
	s.SetTaskStatus(task.ID, planner.StatusCompleted)

	m := newTasksModel(s)
	m.tasks = []planner.Task{*task}
	m.tasks[0].Status = planner.StatusCompleted

	_, cmd := m.setStatus(planner.StatusInProgress)
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("expected an error status, got %#v", msg)
	}
}

func TestTasksSplitAndSubtasks(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Thesis", 100)

	m := newTasksModel(s)
	m, _ = m.update(m.refresh()())
	_, cmd := m.update(keyRunes("x"))
	cmd()
	m, _ = m.update(m.refresh()())
	if len(m.tasks[0].Subtasks) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(m.tasks[0].Subtasks))
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.viewingSubtasks {
		t.Fatal("enter should open the parts view")
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	cmd()

	got, _ := s.GetTask(m.tasks[0].ID)
	if got.Subtasks[0].Completed || !got.Subtasks[1].Completed {
		t.Fatalf("unexpected part completion: %+v", got.Subtasks)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewingSubtasks {
		t.Fatal("esc should close the parts view")
	}
}

func TestTasksSplitShortTaskReportsError(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Quick", 30)
	m := newTasksModel(s)
	m, _ = m.update(m.refresh()())

	_, cmd := m.update(keyRunes("x"))
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestTasksDelete(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Gone", 30)
	m := newTasksModel(s)
	m, _ = m.update(m.refresh()())

	_, cmd := m.update(keyRunes("d"))
	cmd()
	if tasks, _ := s.ListTasks(true); len(tasks) != 0 {
		t.Fatalf("task not deleted: %+v", tasks)
	}
}

func TestTasksFormTask(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	*m.formTitle = "Essay"
	*m.formMinutes = " 90 "
	*m.formCategory = planner.CategoryStudy
	*m.formPriority = planner.PriorityHigh
	*m.formDifficulty = planner.DifficultyHard
	*m.formDeadline = "2026-07-01"

	nt, err := m.formTask()
	if err != nil {
		t.Fatal(err)
	}
	if nt.EstimatedMinutes != 90 || nt.Category != planner.CategoryStudy || nt.Difficulty != planner.DifficultyHard {
		t.Fatalf("unexpected task: %+v", nt)
	}
	if nt.Deadline == nil || nt.Deadline.Format("2006-01-02 15:04") != "2026-07-01 23:59" {
		t.Fatalf("deadline = %v", nt.Deadline)
	}

	*m.formDeadline = ""
	nt, _ = m.formTask()
	if nt.Deadline != nil {
		t.Fatal("empty deadline should be nil")
	}

	*m.formMinutes = "many"
	if _, err := m.formTask(); err == nil {
		t.Fatal("expected error for bad minutes")
	}
}

func TestTaskFormValidators(t *testing.T) {
	if validateTitle("  ") == nil || validateTitle("x") != nil {
		t.Fatal("validateTitle")
	}
	if validateMinutes("0") == nil || validateMinutes("-3") == nil || validateMinutes("abc") == nil || validateMinutes("45") != nil {
		t.Fatal("validateMinutes")
	}
	if validateDeadline("") != nil || validateDeadline("2026-02-30") == nil || validateDeadline("2026-02-28") != nil {
		t.Fatal("validateDeadline")
	}
}

func TestTasksNewFormOpens(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	m.setSize(100, 30)
	m, _ = m.update(keyRunes("n"))
	if !m.formActive || m.form == nil {
		t.Fatal("n should open the task form")
	}
	if !strings.Contains(m.view(), "New Task") {
		t.Fatal("form view should be titled")
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// Reports model
// ============================================================

func TestReportsBreakdown(t *testing.T) {
	s := newTestStore(t)
	work, _ := s.CreateTask(store.NewTask{Title: "w", EstimatedMinutes: 50, Category: planner.CategoryWork})
	study, _ := s.CreateTask(store.NewTask{Title: "s", EstimatedMinutes: 30, Category: planner.CategoryStudy})

	a := newTestAgenda(s, 2)
	a.loadData(false)()

	r := newReportsModel(s)
	r.now = func() time.Time { return fixedNow }
	r.setSize(100, 40)
	r, _ = r.update(r.refresh()())

	rows := r.breakdown()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	byCat := map[planner.Category]categoryMinutes{}
	for _, row := range rows {
		byCat[row.category] = row
	}
	if byCat[planner.CategoryWork].minutes != work.EstimatedMinutes || byCat[planner.CategoryStudy].minutes != study.EstimatedMinutes {
		t.Fatalf("unexpected breakdown: %+v", rows)
	}
	if byCat[planner.CategoryWork].blocks != 2 {
		t.Fatalf("50 minutes should take two sessions, got %d", byCat[planner.CategoryWork].blocks)
	}

	if out := r.view(); !strings.Contains(out, "Planned hours") {
		t.Fatal("reports view should render its title")
	}
}

func TestReportsPaging(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)
	r.now = func() time.Time { return fixedNow }

	from, to := r.dateRange()
	if from.Format("2006-01-02") != "2026-06-01" || to.Format("2006-01-02") != "2026-06-08" {
		t.Fatalf("range = %v..%v", from, to)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyLeft})
	from, _ = r.dateRange()
	if from.Format("2006-01-02") != "2026-05-25" {
		t.Fatalf("previous week starts %v", from)
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsSavePreferences(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.update(m.refresh()())

	m, _ = m.showForm()
	*m.dailyMinutes = "300"
	*m.peakHours = "08:00-10:00, 14:00-15:00"
	*m.pomodoro = "50"

	if err := m.savePreferences(); err != nil {
		t.Fatal(err)
	}
	p, _ := s.GetPreferences()
	if p.DailyMinutes != 300 || p.PomodoroMinutes != 50 || len(p.PeakHours) != 2 {
		t.Fatalf("unexpected preferences: %+v", p)
	}
}

func TestSettingsRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.showForm()
	*m.workStart = "18:00"
	*m.workEnd = "09:00"

	if err := m.savePreferences(); err == nil {
		t.Fatal("expected an error for inverted working hours")
	}
	p, _ := s.GetPreferences()
	if p.WorkingHours != planner.DefaultPreferences().WorkingHours {
		t.Fatal("invalid preferences should not be stored")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		k, v, want string
	}{
		{"daily_minutes", "480", "480 min (8.0h)"},
		{"pomodoro_minutes", "25", "25 min"},
		{"peak_hours", "09:00-12:00,14:00-15:00", "09:00-12:00, 14:00-15:00"},
		{"peak_hours", "", "none"},
		{"working_start", "08:00", "08:00"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.k, tt.v); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.k, tt.v, got, tt.want)
		}
	}
}

func TestSettingsValidators(t *testing.T) {
	if positiveInt("0") == nil || positiveInt("5") != nil {
		t.Fatal("positiveInt")
	}
	if nonNegativeInt("-1") == nil || nonNegativeInt("0") != nil {
		t.Fatal("nonNegativeInt")
	}
	if validClock("25:00") == nil || validClock("09:30") != nil {
		t.Fatal("validClock")
	}
	if validPeaks("09:00") == nil || validPeaks("") == nil || validPeaks(" , ") == nil || validPeaks("09:00-10:00,13:00-14:00") != nil {
		t.Fatal("validPeaks")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})

	if app.activeView != viewAgenda {
		t.Fatal("default view should be agenda")
	}
	if app.agenda.horizon != 7 {
		t.Fatalf("default horizon = %d, want 7", app.agenda.horizon)
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{Days: 3})
	app.width = 120
	app.height = 40

	for i := range viewNames {
		app.activeView = viewState(i)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})
	for i := 0; i < len(viewNames); i++ {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = model.(App)
	}
	if app.activeView != viewAgenda {
		t.Fatalf("tab should wrap around, got %d", app.activeView)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{})
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppTasksChangedReplans(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, Options{Days: 2})
	_, cmd := app.Update(tasksChangedMsg{})
	if cmd == nil {
		t.Fatal("task changes should trigger a replan")
	}
	if _, ok := cmd().(agendaDataMsg); !ok {
		t.Fatal("replan should produce agenda data")
	}
}

func TestAppExport(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, "Report", 60)
	fs := afero.NewMemMapFs()
	app := NewApp(s, Options{Days: 2, Fs: fs, ExportDir: "/exports"})
	app.agenda.now = func() time.Time { return fixedNow }

	model, _ := app.Update(app.agenda.loadData(false)())
	app = model.(App)

	model, _ = app.Update(keyRunes("e"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(App)
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	if !strings.HasSuffix(done.path, ".json") {
		t.Fatalf("second option should be JSON, got %q", done.path)
	}
	data, err := afero.ReadFile(fs, done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"task": "Report"`) {
		t.Fatalf("export missing task title:\n%s", data)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: just verify they render)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"break", func() string { return breakStyle.Render("test") }},
		{"motivation", func() string { return motivationStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"done", func() string { return doneItemStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
	for _, c := range planner.Categories {
		if categoryColor(c) == colorMuted {
			t.Fatalf("category %s has no color", c)
		}
	}
}
