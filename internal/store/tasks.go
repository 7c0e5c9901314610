package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/planner"
)

const taskColumns = `id, title, description, category, deadline, estimated_minutes, priority, difficulty, status, created_at, completed_at`

func (s *Store) CreateTask(nt NewTask) (*planner.Task, error) {
	nt = withDefaults(nt)
	if err := validateTask(nt); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, description, category, deadline, estimated_minutes, priority, difficulty, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(nt.Title), nt.Description, nt.Category, formatTimePtr(nt.Deadline),
		nt.EstimatedMinutes, nt.Priority, nt.Difficulty, planner.StatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	s.log.Info("task created", logx.String("id", id), logx.Int("minutes", nt.EstimatedMinutes))
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*planner.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	if t.Subtasks, err = s.listSubtasks(id); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns tasks in creation order, the order ranking ties fall back on.
func (s *Store) ListTasks(includeCompleted bool) ([]planner.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeCompleted {
		query += ` WHERE status != 'completed'`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []planner.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].Subtasks, err = s.listSubtasks(tasks[i].ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// UpdateTask overwrites the editable fields of an existing task. Status and
// timestamps are left alone; use SetTaskStatus for the lifecycle.
func (s *Store) UpdateTask(id string, nt NewTask) error {
	nt = withDefaults(nt)
	if err := validateTask(nt); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, category = ?, deadline = ?, estimated_minutes = ?, priority = ?, difficulty = ?
		 WHERE id = ?`,
		strings.TrimSpace(nt.Title), nt.Description, nt.Category, formatTimePtr(nt.Deadline),
		nt.EstimatedMinutes, nt.Priority, nt.Difficulty, id,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return expectRow(res, "update task", id)
}

// SetTaskStatus moves a task forward through pending, in_progress and
// completed. Completing a task stamps CompletedAt.
func (s *Store) SetTaskStatus(id string, status planner.Status) error {
	t, err := s.GetTask(id)
	if err != nil {
		return err
	}
	if !t.Status.CanAdvanceTo(status) {
		return fmt.Errorf("set status of %s from %s to %s: %w", id, t.Status, status, ErrStatusRegression)
	}
	if t.Status == status {
		return nil
	}

	var completedAt any
	if status == planner.StatusCompleted {
		completedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = s.db.Exec(`UPDATE tasks SET status = ?, completed_at = ? WHERE id = ?`, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("set status of %s: %w", id, err)
	}
	s.log.Info("task status changed", logx.String("id", id), logx.String("status", string(status)))
	return nil
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return expectRow(res, "delete task", id)
}

// SplitTask breaks a long task into parts with planner.Decompose and stores
// them as its subtasks, replacing any existing ones.
func (s *Store) SplitTask(id string) (*planner.Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	split := planner.Decompose(*t)
	if len(split.Subtasks) == 0 {
		return t, nil
	}
	if err := s.replaceSubtasks(id, split.Subtasks); err != nil {
		return nil, err
	}
	s.log.Info("task split", logx.String("id", id), logx.Int("parts", len(split.Subtasks)))
	return s.GetTask(id)
}

func (s *Store) SetSubtaskCompleted(id string, completed bool) error {
	res, err := s.db.Exec(`UPDATE subtasks SET completed = ? WHERE id = ?`, boolInt(completed), id)
	if err != nil {
		return fmt.Errorf("update subtask %s: %w", id, err)
	}
	return expectRow(res, "update subtask", id)
}

func (s *Store) replaceSubtasks(taskID string, subtasks []planner.Subtask) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM subtasks WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear subtasks: %w", err)
	}
	for i, st := range subtasks {
		_, err := tx.Exec(
			`INSERT INTO subtasks (id, task_id, position, title, completed, estimated_minutes) VALUES (?, ?, ?, ?, ?, ?)`,
			st.ID, taskID, i, st.Title, boolInt(st.Completed), st.EstimatedMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert subtask: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) listSubtasks(taskID string) ([]planner.Subtask, error) {
	rows, err := s.db.Query(
		`SELECT id, title, completed, estimated_minutes FROM subtasks WHERE task_id = ? ORDER BY position`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []planner.Subtask
	for rows.Next() {
		var st planner.Subtask
		var completed int
		if err := rows.Scan(&st.ID, &st.Title, &completed, &st.EstimatedMinutes); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*planner.Task, error) {
	t := &planner.Task{}
	var createdAt string
	var deadline, completedAt sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &deadline, &t.EstimatedMinutes,
		&t.Priority, &t.Difficulty, &t.Status, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.Deadline = parseTimePtr(deadline)
	t.CompletedAt = parseTimePtr(completedAt)
	return t, nil
}

func withDefaults(nt NewTask) NewTask {
	if nt.Category == "" {
		nt.Category = planner.CategoryWork
	}
	if nt.Priority == "" {
		nt.Priority = planner.PriorityMedium
	}
	if nt.Difficulty == "" {
		nt.Difficulty = planner.DifficultyMedium
	}
	return nt
}

func validateTask(nt NewTask) error {
	switch {
	case strings.TrimSpace(nt.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	case nt.EstimatedMinutes <= 0:
		return fmt.Errorf("%w: estimated minutes must be positive, got %d", ErrInvalidTask, nt.EstimatedMinutes)
	case !nt.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidTask, nt.Category)
	case !nt.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, nt.Priority)
	case !nt.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidTask, nt.Difficulty)
	}
	return nil
}

func expectRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
