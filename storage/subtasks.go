package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"kanban-api/domain"
)

type subtaskRow struct {
	ID          string `db:"id"`
	TaskID      string `db:"task_id"`
	Description string `db:"description"`
	Status      string `db:"status"`
	CreatedAt   int64  `db:"created_at"`
}

func (r subtaskRow) toDomain() domain.Subtask {
	return domain.Subtask{
		ID:          r.ID,
		TaskID:      r.TaskID,
		Description: r.Description,
		Status:      domain.SubtaskStatus(r.Status),
		CreatedAt:   fromUnixNano(r.CreatedAt),
	}
}

// SubtaskStore persists subtasks in the subtasks table.
type SubtaskStore struct {
	db *sqlx.DB
}

func (s *SubtaskStore) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	var row subtaskRow
	err := s.db.GetContext(ctx, &row, `SELECT id, task_id, description, status, created_at FROM subtasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sub := row.toDomain()
	return &sub, nil
}

func (s *SubtaskStore) GetByTaskID(ctx context.Context, taskID string) ([]domain.Subtask, error) {
	var rows []subtaskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, task_id, description, status, created_at FROM subtasks
		WHERE task_id = ? ORDER BY created_at ASC, rowid ASC`, taskID)
	if err != nil {
		return nil, err
	}
	subtasks := make([]domain.Subtask, 0, len(rows))
	for _, row := range rows {
		subtasks = append(subtasks, row.toDomain())
	}
	return subtasks, nil
}

func (s *SubtaskStore) Save(ctx context.Context, subtask domain.Subtask) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subtasks (id, task_id, description, status, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET task_id = excluded.task_id, description = excluded.description, status = excluded.status`,
		subtask.ID, subtask.TaskID, subtask.Description, string(subtask.Status), toUnixNano(subtask.CreatedAt))
	return err
}

func (s *SubtaskStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	return err
}
