package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/sadopc/focusflow/internal/logx"
)

const currentVersion = 1

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidTask      = errors.New("invalid task")
	ErrStatusRegression = errors.New("task status cannot move backwards")
)

type Store struct {
	db  *sql.DB
	log logx.Logger
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: logx.Nop()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) SetLogger(l logx.Logger) { s.log = l.With(logx.String("component", "store")) }

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL DEFAULT 'work',
		deadline          TEXT,
		estimated_minutes INTEGER NOT NULL CHECK (estimated_minutes > 0),
		priority          TEXT NOT NULL DEFAULT 'medium',
		difficulty        TEXT NOT NULL DEFAULT 'medium',
		status            TEXT NOT NULL DEFAULT 'pending',
		created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at      TEXT
	);

	CREATE TABLE IF NOT EXISTS subtasks (
		id                TEXT PRIMARY KEY,
		task_id           TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		title             TEXT NOT NULL,
		completed         INTEGER NOT NULL DEFAULT 0,
		estimated_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id, position);

	CREATE TABLE IF NOT EXISTS schedule_days (
		date          TEXT PRIMARY KEY,
		total_minutes INTEGER NOT NULL DEFAULT 0,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		generated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedule_blocks (
		date       TEXT NOT NULL REFERENCES schedule_days(date) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		task_id    TEXT,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		break_kind TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, position)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/focusflow/focusflow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusflow", "focusflow.db"), nil
}
