package usecase

import (
	"context"
	"time"

	"kanban-api/domain"
)

// Repository contracts are declared here, on the consumer side. Lookups
// return (nil, nil) when no row exists; an error always means the storage
// layer itself failed and is propagated unclassified. List operations are
// ordered by creation time ascending. Save has upsert semantics keyed by id.

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Save(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
}

type BoardRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Board, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Board, error)
	GetByUserIDAndName(ctx context.Context, userID, name string) (*domain.Board, error)
	Save(ctx context.Context, board domain.Board) error
	Delete(ctx context.Context, id string) error
}

type ColumnRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BoardColumn, error)
	GetByBoardID(ctx context.Context, boardID string) ([]domain.BoardColumn, error)
	Save(ctx context.Context, column domain.BoardColumn) error
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByColumnID(ctx context.Context, columnID string) ([]domain.Task, error)
	Save(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

type SubtaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	GetByTaskID(ctx context.Context, taskID string) ([]domain.Subtask, error)
	Save(ctx context.Context, subtask domain.Subtask) error
	Delete(ctx context.Context, id string) error
}

// Repositories bundles the five stores a usecase may touch.
type Repositories struct {
	Users    UserRepository
	Boards   BoardRepository
	Columns  ColumnRepository
	Tasks    TaskRepository
	Subtasks SubtaskRepository
}

// IdentifierGenerator produces globally unique ids. Injected so usecases are
// deterministic under test.
type IdentifierGenerator interface {
	NewID() string
}

// Clock produces timestamps, injected for the same reason.
type Clock interface {
	Now() time.Time
}

// Hasher compares a stored password hash against a sign-in attempt. The
// hashing mechanics live at the boundary.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) bool
}
