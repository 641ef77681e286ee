package usecase

import (
	"context"

	"kanban-api/domain"
)

type CreateColumnRequest struct {
	UserID     string
	BoardID    string
	ColumnName string
}

// CreateColumn adds a column to a board the requester owns. The name must be
// unique within the board.
func (u *Usecases) CreateColumn(ctx context.Context, req CreateColumnRequest) (*domain.BoardColumn, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := u.resolver.resolveBoard(ctx, req.UserID, req.BoardID); err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	if msg, ok := checkName("column name", req.ColumnName); !ok {
		fields.add("columnName", msg)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	siblings, err := u.repos.Columns.GetByBoardID(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if sibling.ColumnName == req.ColumnName {
			return nil, ConflictError{Field: "columnName", Message: "a column with this name already exists on this board"}
		}
	}

	column := domain.BoardColumn{
		ID:         u.ids.NewID(),
		BoardID:    req.BoardID,
		ColumnName: req.ColumnName,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.repos.Columns.Save(ctx, column); err != nil {
		return nil, err
	}
	return &column, nil
}

type GetColumnsRequest struct {
	UserID  string
	BoardID string
}

func (u *Usecases) GetColumns(ctx context.Context, req GetColumnsRequest) ([]domain.BoardColumn, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := u.resolver.resolveBoard(ctx, req.UserID, req.BoardID); err != nil {
		return nil, err
	}
	return u.repos.Columns.GetByBoardID(ctx, req.BoardID)
}
