package usecase

import (
	"context"

	"kanban-api/domain"
)

// Chain holds every entity loaded while walking from a target up to its
// board. Usecases reuse these instead of re-fetching; entries above the entry
// point are always set, entries below stay nil.
type Chain struct {
	Board   *domain.Board
	Column  *domain.BoardColumn
	Task    *domain.Task
	Subtask *domain.Subtask
}

// resolver walks an ownership chain child to parent. At every hop an absent
// link fails with EntityNotFoundError naming that link; only once the board
// is reached is its owner compared against the requesting user. Existence
// checks therefore always take precedence over the ownership check, and the
// first failure stops the walk.
type resolver struct {
	repos Repositories
}

// requireUser rejects requests whose claimed identity does not exist. An
// unknown user id is malformed input, not an access violation.
func (r resolver) requireUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidInput("userId", "user does not exist")
	}
	return user, nil
}

func (r resolver) resolveBoard(ctx context.Context, userID, boardID string) (Chain, error) {
	board, err := r.repos.Boards.GetByID(ctx, boardID)
	if err != nil {
		return Chain{}, err
	}
	if board == nil {
		return Chain{}, EntityNotFoundError{Kind: domain.KindBoard}
	}
	if board.UserID != userID {
		return Chain{}, UnauthorizedError{}
	}
	return Chain{Board: board}, nil
}

func (r resolver) resolveColumn(ctx context.Context, userID, columnID string) (Chain, error) {
	column, err := r.repos.Columns.GetByID(ctx, columnID)
	if err != nil {
		return Chain{}, err
	}
	if column == nil {
		return Chain{}, EntityNotFoundError{Kind: domain.KindColumn}
	}
	chain, err := r.resolveBoard(ctx, userID, column.BoardID)
	if err != nil {
		return Chain{}, err
	}
	chain.Column = column
	return chain, nil
}

func (r resolver) resolveTask(ctx context.Context, userID, taskID string) (Chain, error) {
	task, err := r.repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return Chain{}, err
	}
	if task == nil {
		return Chain{}, EntityNotFoundError{Kind: domain.KindTask}
	}
	chain, err := r.resolveColumn(ctx, userID, task.ColumnID)
	if err != nil {
		return Chain{}, err
	}
	chain.Task = task
	return chain, nil
}

func (r resolver) resolveSubtask(ctx context.Context, userID, subtaskID string) (Chain, error) {
	subtask, err := r.repos.Subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return Chain{}, err
	}
	if subtask == nil {
		return Chain{}, EntityNotFoundError{Kind: domain.KindSubtask}
	}
	chain, err := r.resolveTask(ctx, userID, subtask.TaskID)
	if err != nil {
		return Chain{}, err
	}
	chain.Subtask = subtask
	return chain, nil
}
