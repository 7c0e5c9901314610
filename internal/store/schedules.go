package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/planner"
)

// SaveSchedules stores generated days, replacing whatever was stored for
// those dates. Other dates are untouched.
func (s *Store) SaveSchedules(days []planner.DailySchedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, d := range days {
		date := d.Date.Format(dateLayout)
		if _, err := tx.Exec(`DELETE FROM schedule_days WHERE date = ?`, date); err != nil {
			return fmt.Errorf("clear schedule %s: %w", date, err)
		}
		_, err := tx.Exec(
			`INSERT INTO schedule_days (date, total_minutes, break_minutes, generated_at) VALUES (?, ?, ?, ?)`,
			date, d.TotalMinutes, d.BreakMinutes, now,
		)
		if err != nil {
			return fmt.Errorf("insert schedule %s: %w", date, err)
		}
		for i, b := range d.Blocks {
			var taskID any
			if !b.IsBreak() {
				taskID = b.TaskID
			}
			_, err := tx.Exec(
				`INSERT INTO schedule_blocks (date, position, task_id, start_time, end_time, break_kind) VALUES (?, ?, ?, ?, ?, ?)`,
				date, i, taskID, b.Start.String(), b.End.String(), string(b.Break),
			)
			if err != nil {
				return fmt.Errorf("insert block %s/%d: %w", date, i, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedules: %w", err)
	}
	s.log.Debug("schedules saved", logx.Int("days", len(days)))
	return nil
}

// ListSchedules returns stored days in date order. Dates come back as local
// midnight.
func (s *Store) ListSchedules(f ScheduleFilter) ([]planner.DailySchedule, error) {
	query := `SELECT date, total_minutes, break_minutes FROM schedule_days WHERE 1=1`
	var args []any
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND date < ?`
		args = append(args, f.To.Format(dateLayout))
	}
	query += ` ORDER BY date`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var days []planner.DailySchedule
	for rows.Next() {
		var d planner.DailySchedule
		var date string
		if err := rows.Scan(&date, &d.TotalMinutes, &d.BreakMinutes); err != nil {
			return nil, err
		}
		d.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse schedule date %q: %w", date, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		if days[i].Blocks, err = s.listBlocks(days[i].Date); err != nil {
			return nil, err
		}
	}
	return days, nil
}

func (s *Store) listBlocks(date time.Time) ([]planner.Block, error) {
	rows, err := s.db.Query(
		`SELECT task_id, start_time, end_time, break_kind FROM schedule_blocks WHERE date = ? ORDER BY position`,
		date.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []planner.Block{}
	for rows.Next() {
		var taskID sql.NullString
		var start, end, kind string
		if err := rows.Scan(&taskID, &start, &end, &kind); err != nil {
			return nil, err
		}
		b := planner.Block{TaskID: taskID.String, Date: date, Break: planner.BreakKind(kind)}
		if b.Start, err = planner.ParseClock(start); err != nil {
			return nil, err
		}
		if b.End, err = planner.ParseClock(end); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
