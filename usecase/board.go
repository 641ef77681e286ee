package usecase

import (
	"context"

	"kanban-api/domain"
)

type CreateBoardRequest struct {
	UserID  string
	Name    string
	Columns []string
}

type CreateBoardResult struct {
	Board   domain.Board
	Columns []domain.BoardColumn
}

// CreateBoard creates a board and its initial columns. The board name must
// be unique among the requesting user's boards (exact, case-sensitive), and
// the submitted column names must be pairwise distinct: a duplicate is
// reported against every index of its group, not just the later occurrences.
func (u *Usecases) CreateBoard(ctx context.Context, req CreateBoardRequest) (CreateBoardResult, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return CreateBoardResult{}, err
	}

	fields := fieldErrors{}
	if msg, ok := checkName("name", req.Name); !ok {
		fields.add("name", msg)
	}
	for i, col := range req.Columns {
		if msg, ok := checkName("column name", col); !ok {
			fields.add(columnField(i), msg)
		}
	}
	for _, i := range duplicateIndices(req.Columns) {
		fields.add(columnField(i), "column names must be unique")
	}
	if err := fields.err(); err != nil {
		return CreateBoardResult{}, err
	}

	existing, err := u.repos.Boards.GetByUserIDAndName(ctx, req.UserID, req.Name)
	if err != nil {
		return CreateBoardResult{}, err
	}
	if existing != nil {
		return CreateBoardResult{}, ConflictError{Field: "name", Message: "a board with this name already exists"}
	}

	board := domain.Board{
		ID:        u.ids.NewID(),
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: u.clock.Now(),
	}
	if err := u.repos.Boards.Save(ctx, board); err != nil {
		return CreateBoardResult{}, err
	}

	columns := make([]domain.BoardColumn, 0, len(req.Columns))
	for _, name := range req.Columns {
		column := domain.BoardColumn{
			ID:         u.ids.NewID(),
			BoardID:    board.ID,
			ColumnName: name,
			CreatedAt:  u.clock.Now(),
		}
		if err := u.repos.Columns.Save(ctx, column); err != nil {
			return CreateBoardResult{}, err
		}
		columns = append(columns, column)
	}
	return CreateBoardResult{Board: board, Columns: columns}, nil
}

type GetBoardsRequest struct {
	UserID string
}

func (u *Usecases) GetBoards(ctx context.Context, req GetBoardsRequest) ([]domain.Board, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	return u.repos.Boards.GetByUserID(ctx, req.UserID)
}

type GetBoardRequest struct {
	UserID  string
	BoardID string
}

func (u *Usecases) GetBoard(ctx context.Context, req GetBoardRequest) (*domain.Board, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveBoard(ctx, req.UserID, req.BoardID)
	if err != nil {
		return nil, err
	}
	return chain.Board, nil
}

// UpdateBoardColumn describes one column in an update submission. A nil ID
// means the column is new; columns present in storage but absent from the
// submission are deleted along with their tasks.
type UpdateBoardColumn struct {
	ID   *string
	Name string
}

type UpdateBoardRequest struct {
	UserID  string
	BoardID string
	Name    string
	Columns []UpdateBoardColumn
}

type UpdateBoardResult struct {
	Board   domain.Board
	Columns []domain.BoardColumn
}

// UpdateBoard renames a board and reconciles its column set against the
// submission: new columns are created, kept columns renamed, and removed
// columns cascade-deleted children first.
func (u *Usecases) UpdateBoard(ctx context.Context, req UpdateBoardRequest) (UpdateBoardResult, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return UpdateBoardResult{}, err
	}
	chain, err := u.resolver.resolveBoard(ctx, req.UserID, req.BoardID)
	if err != nil {
		return UpdateBoardResult{}, err
	}

	fields := fieldErrors{}
	if msg, ok := checkName("name", req.Name); !ok {
		fields.add("name", msg)
	}
	names := make([]string, len(req.Columns))
	for i, col := range req.Columns {
		names[i] = col.Name
		if msg, ok := checkName("column name", col.Name); !ok {
			fields.add(columnField(i), msg)
		}
	}
	for _, i := range duplicateIndices(names) {
		fields.add(columnField(i), "column names must be unique")
	}
	if err := fields.err(); err != nil {
		return UpdateBoardResult{}, err
	}

	if req.Name != chain.Board.Name {
		other, err := u.repos.Boards.GetByUserIDAndName(ctx, req.UserID, req.Name)
		if err != nil {
			return UpdateBoardResult{}, err
		}
		if other != nil && other.ID != req.BoardID {
			return UpdateBoardResult{}, ConflictError{Field: "name", Message: "a board with this name already exists"}
		}
	}

	current, err := u.repos.Columns.GetByBoardID(ctx, req.BoardID)
	if err != nil {
		return UpdateBoardResult{}, err
	}
	byID := make(map[string]domain.BoardColumn, len(current))
	for _, col := range current {
		byID[col.ID] = col
	}

	submitted := make(map[string]struct{}, len(req.Columns))
	columns := make([]domain.BoardColumn, 0, len(req.Columns))
	for _, col := range req.Columns {
		if col.ID != nil {
			kept, ok := byID[*col.ID]
			if !ok {
				return UpdateBoardResult{}, EntityNotFoundError{Kind: domain.KindColumn}
			}
			submitted[*col.ID] = struct{}{}
			if kept.ColumnName != col.Name {
				kept.ColumnName = col.Name
				if err := u.repos.Columns.Save(ctx, kept); err != nil {
					return UpdateBoardResult{}, err
				}
			}
			columns = append(columns, kept)
			continue
		}
		created := domain.BoardColumn{
			ID:         u.ids.NewID(),
			BoardID:    req.BoardID,
			ColumnName: col.Name,
			CreatedAt:  u.clock.Now(),
		}
		if err := u.repos.Columns.Save(ctx, created); err != nil {
			return UpdateBoardResult{}, err
		}
		columns = append(columns, created)
	}

	for _, col := range current {
		if _, keep := submitted[col.ID]; keep {
			continue
		}
		if err := u.deleteColumnCascade(ctx, col.ID); err != nil {
			return UpdateBoardResult{}, err
		}
	}

	board := *chain.Board
	if board.Name != req.Name {
		board.Name = req.Name
		if err := u.repos.Boards.Save(ctx, board); err != nil {
			return UpdateBoardResult{}, err
		}
	}
	return UpdateBoardResult{Board: board, Columns: columns}, nil
}

type DeleteBoardRequest struct {
	UserID  string
	BoardID string
}

// DeleteBoard removes a board and everything beneath it. Descendants go
// first (subtasks, tasks, columns, then the board) so a concurrent read
// never observes orphaned children of a board that is already gone.
func (u *Usecases) DeleteBoard(ctx context.Context, req DeleteBoardRequest) error {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return err
	}
	chain, err := u.resolver.resolveBoard(ctx, req.UserID, req.BoardID)
	if err != nil {
		return err
	}

	columns, err := u.repos.Columns.GetByBoardID(ctx, req.BoardID)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if err := u.deleteColumnCascade(ctx, col.ID); err != nil {
			return err
		}
	}
	return u.repos.Boards.Delete(ctx, chain.Board.ID)
}

func (u *Usecases) deleteColumnCascade(ctx context.Context, columnID string) error {
	tasks, err := u.repos.Tasks.GetByColumnID(ctx, columnID)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := u.deleteTaskCascade(ctx, task.ID); err != nil {
			return err
		}
	}
	return u.repos.Columns.Delete(ctx, columnID)
}

func (u *Usecases) deleteTaskCascade(ctx context.Context, taskID string) error {
	subtasks, err := u.repos.Subtasks.GetByTaskID(ctx, taskID)
	if err != nil {
		return err
	}
	for _, sub := range subtasks {
		if err := u.repos.Subtasks.Delete(ctx, sub.ID); err != nil {
			return err
		}
	}
	return u.repos.Tasks.Delete(ctx, taskID)
}
