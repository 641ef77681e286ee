package storage

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"kanban-api/usecase"
)

// Storage provides access to the underlying sqlite database. Each entity
// gets its own store so the usecase layer can depend on narrow interfaces.
type Storage struct {
	db       *sqlx.DB
	Users    *UserStore
	Boards   *BoardStore
	Columns  *ColumnStore
	Tasks    *TaskStore
	Subtasks *SubtaskStore
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_boards_user_id ON boards (user_id);

CREATE TABLE IF NOT EXISTS board_columns (
	id         TEXT PRIMARY KEY,
	board_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_board_columns_board_id ON board_columns (board_id);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	column_id   TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_column_id ON tasks (column_id);

CREATE TABLE IF NOT EXISTS subtasks (
	id          TEXT PRIMARY KEY,
	task_id     TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subtasks_task_id ON subtasks (task_id);
`

// New opens (or creates) the database at the given path and applies the
// schema. Pass ":memory:" for an ephemeral database.
func New(path string) (*Storage, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc's sqlite driver is not safe for concurrent writes over
	// multiple connections to the same file.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{
		db:       db,
		Users:    &UserStore{db: db},
		Boards:   &BoardStore{db: db},
		Columns:  &ColumnStore{db: db},
		Tasks:    &TaskStore{db: db},
		Subtasks: &SubtaskStore{db: db},
	}, nil
}

// Repositories bundles the stores in the shape the usecase layer expects.
func (s *Storage) Repositories() usecase.Repositories {
	return usecase.Repositories{
		Users:    s.Users,
		Boards:   s.Boards,
		Columns:  s.Columns,
		Tasks:    s.Tasks,
		Subtasks: s.Subtasks,
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func toUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
