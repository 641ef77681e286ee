package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"kanban-api/domain"
)

type taskRow struct {
	ID          string `db:"id"`
	ColumnID    string `db:"column_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	CreatedAt   int64  `db:"created_at"`
}

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		ColumnID:    r.ColumnID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   fromUnixNano(r.CreatedAt),
	}
}

// TaskStore persists tasks in the tasks table.
type TaskStore struct {
	db *sqlx.DB
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row, `SELECT id, column_id, title, description, created_at FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := row.toDomain()
	return &t, nil
}

func (s *TaskStore) GetByColumnID(ctx context.Context, columnID string) ([]domain.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, column_id, title, description, created_at FROM tasks
		WHERE column_id = ? ORDER BY created_at ASC, rowid ASC`, columnID)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	return tasks, nil
}

func (s *TaskStore) Save(ctx context.Context, task domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, column_id, title, description, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET column_id = excluded.column_id, title = excluded.title, description = excluded.description`,
		task.ID, task.ColumnID, task.Title, task.Description, toUnixNano(task.CreatedAt))
	return err
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}
