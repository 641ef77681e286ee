package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"kanban-api/domain"
)

type boardRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Name      string `db:"name"`
	CreatedAt int64  `db:"created_at"`
}

func (r boardRow) toDomain() domain.Board {
	return domain.Board{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: fromUnixNano(r.CreatedAt),
	}
}

// BoardStore persists boards in the boards table.
type BoardStore struct {
	db *sqlx.DB
}

func (s *BoardStore) GetByID(ctx context.Context, id string) (*domain.Board, error) {
	var row boardRow
	err := s.db.GetContext(ctx, &row, `SELECT id, user_id, name, created_at FROM boards WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b := row.toDomain()
	return &b, nil
}

func (s *BoardStore) GetByUserID(ctx context.Context, userID string) ([]domain.Board, error) {
	var rows []boardRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, created_at FROM boards
		WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, err
	}
	boards := make([]domain.Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, row.toDomain())
	}
	return boards, nil
}

func (s *BoardStore) GetByUserIDAndName(ctx context.Context, userID, name string) (*domain.Board, error) {
	var row boardRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, created_at FROM boards
		WHERE user_id = ? AND name = ?`, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b := row.toDomain()
	return &b, nil
}

func (s *BoardStore) Save(ctx context.Context, board domain.Board) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, user_id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name`,
		board.ID, board.UserID, board.Name, toUnixNano(board.CreatedAt))
	return err
}

func (s *BoardStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	return err
}
