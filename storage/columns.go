package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"kanban-api/domain"
)

type columnRow struct {
	ID        string `db:"id"`
	BoardID   string `db:"board_id"`
	Name      string `db:"name"`
	CreatedAt int64  `db:"created_at"`
}

func (r columnRow) toDomain() domain.BoardColumn {
	return domain.BoardColumn{
		ID:         r.ID,
		BoardID:    r.BoardID,
		ColumnName: r.Name,
		CreatedAt:  fromUnixNano(r.CreatedAt),
	}
}

// ColumnStore persists board columns in the board_columns table.
type ColumnStore struct {
	db *sqlx.DB
}

func (s *ColumnStore) GetByID(ctx context.Context, id string) (*domain.BoardColumn, error) {
	var row columnRow
	err := s.db.GetContext(ctx, &row, `SELECT id, board_id, name, created_at FROM board_columns WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

func (s *ColumnStore) GetByBoardID(ctx context.Context, boardID string) ([]domain.BoardColumn, error) {
	var rows []columnRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, board_id, name, created_at FROM board_columns
		WHERE board_id = ? ORDER BY created_at ASC, rowid ASC`, boardID)
	if err != nil {
		return nil, err
	}
	columns := make([]domain.BoardColumn, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, row.toDomain())
	}
	return columns, nil
}

func (s *ColumnStore) Save(ctx context.Context, column domain.BoardColumn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_columns (id, board_id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET board_id = excluded.board_id, name = excluded.name`,
		column.ID, column.BoardID, column.ColumnName, toUnixNano(column.CreatedAt))
	return err
}

func (s *ColumnStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ?`, id)
	return err
}
