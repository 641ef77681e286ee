package usecase

import (
	"context"

	"kanban-api/domain"
)

type CreateTaskRequest struct {
	UserID      string
	ColumnID    string
	Title       string
	Description string
	Subtasks    []string
}

type CreateTaskResult struct {
	Task     domain.Task
	Subtasks []domain.Subtask
}

// CreateTask adds a task (and its initial subtasks) to a column the
// requester owns.
func (u *Usecases) CreateTask(ctx context.Context, req CreateTaskRequest) (CreateTaskResult, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return CreateTaskResult{}, err
	}
	if _, err := u.resolver.resolveColumn(ctx, req.UserID, req.ColumnID); err != nil {
		return CreateTaskResult{}, err
	}

	fields := fieldErrors{}
	if msg, ok := checkTitle(req.Title); !ok {
		fields.add("title", msg)
	}
	if msg, ok := checkDescription(req.Description); !ok {
		fields.add("description", msg)
	}
	for i, sub := range req.Subtasks {
		if sub == "" {
			fields.add(subtaskField(i), "subtask description should contain at least 1 character")
		}
	}
	if err := fields.err(); err != nil {
		return CreateTaskResult{}, err
	}

	task := domain.Task{
		ID:          u.ids.NewID(),
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   u.clock.Now(),
	}
	if err := u.repos.Tasks.Save(ctx, task); err != nil {
		return CreateTaskResult{}, err
	}

	subtasks := make([]domain.Subtask, 0, len(req.Subtasks))
	for _, description := range req.Subtasks {
		sub := domain.Subtask{
			ID:          u.ids.NewID(),
			TaskID:      task.ID,
			Description: description,
			Status:      domain.SubtaskInProgress,
			CreatedAt:   u.clock.Now(),
		}
		if err := u.repos.Subtasks.Save(ctx, sub); err != nil {
			return CreateTaskResult{}, err
		}
		subtasks = append(subtasks, sub)
	}
	return CreateTaskResult{Task: task, Subtasks: subtasks}, nil
}

type GetTaskRequest struct {
	UserID string
	TaskID string
}

func (u *Usecases) GetTask(ctx context.Context, req GetTaskRequest) (*domain.Task, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}
	return chain.Task, nil
}

type GetColumnTasksRequest struct {
	UserID   string
	ColumnID string
}

func (u *Usecases) GetColumnTasks(ctx context.Context, req GetColumnTasksRequest) ([]domain.Task, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := u.resolver.resolveColumn(ctx, req.UserID, req.ColumnID); err != nil {
		return nil, err
	}
	return u.repos.Tasks.GetByColumnID(ctx, req.ColumnID)
}

type UpdateTaskRequest struct {
	UserID      string
	TaskID      string
	Title       string
	Description string
}

func (u *Usecases) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	if msg, ok := checkTitle(req.Title); !ok {
		fields.add("title", msg)
	}
	if msg, ok := checkDescription(req.Description); !ok {
		fields.add("description", msg)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	task := *chain.Task
	task.Title = req.Title
	task.Description = req.Description
	if err := u.repos.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

type MoveTaskRequest struct {
	UserID     string
	TaskID     string
	ToColumnID string
}

// MoveTask reassigns a task to another column of the same board. Both the
// task's own chain and the destination column's chain are resolved, so a
// destination in somebody else's board fails exactly like any other
// unauthorized access.
func (u *Usecases) MoveTask(ctx context.Context, req MoveTaskRequest) (*domain.Task, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}
	target, err := u.resolver.resolveColumn(ctx, req.UserID, req.ToColumnID)
	if err != nil {
		return nil, err
	}
	if target.Board.ID != chain.Board.ID {
		return nil, invalidInput("columnId", "column belongs to a different board")
	}

	task := *chain.Task
	if task.ColumnID == req.ToColumnID {
		return &task, nil
	}
	task.ColumnID = req.ToColumnID
	if err := u.repos.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

type DeleteTaskRequest struct {
	UserID string
	TaskID string
}

// DeleteTask removes a task, subtasks first.
func (u *Usecases) DeleteTask(ctx context.Context, req DeleteTaskRequest) error {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return err
	}
	chain, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return err
	}
	return u.deleteTaskCascade(ctx, chain.Task.ID)
}
