package usecase

import (
	"context"

	"kanban-api/domain"
)

type CreateSubtaskRequest struct {
	UserID      string
	TaskID      string
	Description string
}

func (u *Usecases) CreateSubtask(ctx context.Context, req CreateSubtaskRequest) (*domain.Subtask, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}
	if req.Description == "" {
		return nil, invalidInput("description", "subtask description should contain at least 1 character")
	}

	sub := domain.Subtask{
		ID:          u.ids.NewID(),
		TaskID:      chain.Task.ID,
		Description: req.Description,
		Status:      domain.SubtaskInProgress,
		CreatedAt:   u.clock.Now(),
	}
	if err := u.repos.Subtasks.Save(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

type GetSubtasksRequest struct {
	UserID string
	TaskID string
}

func (u *Usecases) GetSubtasks(ctx context.Context, req GetSubtasksRequest) ([]domain.Subtask, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := u.resolver.resolveTask(ctx, req.UserID, req.TaskID); err != nil {
		return nil, err
	}
	return u.repos.Subtasks.GetByTaskID(ctx, req.TaskID)
}

type UpdateSubtaskStatusRequest struct {
	UserID    string
	SubtaskID string
	Status    domain.SubtaskStatus
}

// UpdateSubtaskStatus flips the status field and nothing else. The full
// ownership chain rooted at the subtask is still resolved; unrelated task
// fields are not revalidated.
func (u *Usecases) UpdateSubtaskStatus(ctx context.Context, req UpdateSubtaskStatusRequest) (*domain.Subtask, error) {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	chain, err := u.resolver.resolveSubtask(ctx, req.UserID, req.SubtaskID)
	if err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, invalidInput("status", "status must be in_progress or completed")
	}

	sub := *chain.Subtask
	if sub.Status == req.Status {
		return &sub, nil
	}
	sub.Status = req.Status
	if err := u.repos.Subtasks.Save(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

type DeleteSubtaskRequest struct {
	UserID    string
	SubtaskID string
}

func (u *Usecases) DeleteSubtask(ctx context.Context, req DeleteSubtaskRequest) error {
	if _, err := u.resolver.requireUser(ctx, req.UserID); err != nil {
		return err
	}
	chain, err := u.resolver.resolveSubtask(ctx, req.UserID, req.SubtaskID)
	if err != nil {
		return err
	}
	return u.repos.Subtasks.Delete(ctx, chain.Subtask.ID)
}
