package api

import (
	"context"

	"kanban-api/domain"
	"kanban-api/usecase"
)

// Service abstracts the board operations handlers delegate to. It is
// satisfied by *usecase.Usecases.
type Service interface {
	CreateUser(ctx context.Context, req usecase.CreateUserRequest) (usecase.CreateUserResult, error)
	SignIn(ctx context.Context, req usecase.SignInRequest) (*domain.User, error)

	CreateBoard(ctx context.Context, req usecase.CreateBoardRequest) (usecase.CreateBoardResult, error)
	GetBoards(ctx context.Context, req usecase.GetBoardsRequest) ([]domain.Board, error)
	GetBoard(ctx context.Context, req usecase.GetBoardRequest) (*domain.Board, error)
	UpdateBoard(ctx context.Context, req usecase.UpdateBoardRequest) (usecase.UpdateBoardResult, error)
	DeleteBoard(ctx context.Context, req usecase.DeleteBoardRequest) error

	CreateColumn(ctx context.Context, req usecase.CreateColumnRequest) (*domain.BoardColumn, error)
	GetColumns(ctx context.Context, req usecase.GetColumnsRequest) ([]domain.BoardColumn, error)

	CreateTask(ctx context.Context, req usecase.CreateTaskRequest) (usecase.CreateTaskResult, error)
	GetTask(ctx context.Context, req usecase.GetTaskRequest) (*domain.Task, error)
	GetColumnTasks(ctx context.Context, req usecase.GetColumnTasksRequest) ([]domain.Task, error)
	UpdateTask(ctx context.Context, req usecase.UpdateTaskRequest) (*domain.Task, error)
	MoveTask(ctx context.Context, req usecase.MoveTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, req usecase.DeleteTaskRequest) error

	CreateSubtask(ctx context.Context, req usecase.CreateSubtaskRequest) (*domain.Subtask, error)
	GetSubtasks(ctx context.Context, req usecase.GetSubtasksRequest) ([]domain.Subtask, error)
	UpdateSubtaskStatus(ctx context.Context, req usecase.UpdateSubtaskStatusRequest) (*domain.Subtask, error)
	DeleteSubtask(ctx context.Context, req usecase.DeleteSubtaskRequest) error
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}
