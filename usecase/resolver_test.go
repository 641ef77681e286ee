package usecase

import (
	"context"
	"errors"
	"testing"

	"kanban-api/domain"
)

// Builds the intact chain user -> board -> column -> task -> subtask.
func seedChain(f *fixture) {
	f.seedUser("user-1", "owner@example.com")
	f.seedBoard("board-1", "user-1", "Platform")
	f.seedColumn("column-1", "board-1", "Todo")
	f.seedTask("task-1", "column-1", "Ship it")
	f.seedSubtask("subtask-1", "task-1", "Write tests", domain.SubtaskInProgress)
}

func TestGetTaskUnknownUserIsInvalidInput(t *testing.T) {
	f := newFixture()
	seedChain(f)

	_, err := f.uc.GetTask(context.Background(), GetTaskRequest{UserID: "ghost", TaskID: "task-1"})

	var invalid InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if _, ok := invalid.Fields["userId"]; !ok {
		t.Fatalf("expected userId field error, got %v", invalid.Fields)
	}
}

func TestGetTaskMissingLinksReportFirstMissingKind(t *testing.T) {
	tests := []struct {
		name   string
		remove func(f *fixture)
		want   domain.EntityKind
	}{
		{
			name:   "task missing",
			remove: func(f *fixture) { f.tasks.items = nil },
			want:   domain.KindTask,
		},
		{
			name:   "column deleted concurrently",
			remove: func(f *fixture) { f.columns.items = nil },
			want:   domain.KindColumn,
		},
		{
			name:   "board deleted concurrently",
			remove: func(f *fixture) { f.boards.items = nil },
			want:   domain.KindBoard,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			seedChain(f)
			tt.remove(f)

			_, err := f.uc.GetTask(context.Background(), GetTaskRequest{UserID: "user-1", TaskID: "task-1"})

			var notFound EntityNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected EntityNotFoundError, got %v", err)
			}
			if notFound.Kind != tt.want {
				t.Fatalf("expected missing kind %q, got %q", tt.want, notFound.Kind)
			}
		})
	}
}

func TestGetTaskForeignBoardIsUnauthorized(t *testing.T) {
	f := newFixture()
	seedChain(f)
	f.seedUser("user-2", "intruder@example.com")

	_, err := f.uc.GetTask(context.Background(), GetTaskRequest{UserID: "user-2", TaskID: "task-1"})

	var unauthorized UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}

// A broken link between the entity and the board must win over the ownership
// verdict: the intruder learns only that something was not found.
func TestExistenceChecksPrecedeOwnership(t *testing.T) {
	f := newFixture()
	seedChain(f)
	f.seedUser("user-2", "intruder@example.com")
	f.columns.items = nil

	_, err := f.uc.GetTask(context.Background(), GetTaskRequest{UserID: "user-2", TaskID: "task-1"})

	var notFound EntityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected EntityNotFoundError, got %v", err)
	}
	if notFound.Kind != domain.KindColumn {
		t.Fatalf("expected column reported missing, got %q", notFound.Kind)
	}
}

func TestGetTaskReturnsTaskForOwner(t *testing.T) {
	f := newFixture()
	seedChain(f)

	task, err := f.uc.GetTask(context.Background(), GetTaskRequest{UserID: "user-1", TaskID: "task-1"})
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.ID != "task-1" || task.Title != "Ship it" {
		t.Fatalf("unexpected task: %#v", task)
	}
}

func TestSubtaskChainResolvesFromLeaf(t *testing.T) {
	f := newFixture()
	seedChain(f)
	f.seedUser("user-2", "intruder@example.com")

	t.Run("owner toggles", func(t *testing.T) {
		sub, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
			UserID: "user-1", SubtaskID: "subtask-1", Status: domain.SubtaskCompleted,
		})
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if sub.Status != domain.SubtaskCompleted {
			t.Fatalf("expected completed, got %q", sub.Status)
		}
	})

	t.Run("intruder denied", func(t *testing.T) {
		_, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
			UserID: "user-2", SubtaskID: "subtask-1", Status: domain.SubtaskInProgress,
		})
		var unauthorized UnauthorizedError
		if !errors.As(err, &unauthorized) {
			t.Fatalf("expected UnauthorizedError, got %v", err)
		}
	})

	t.Run("missing subtask", func(t *testing.T) {
		_, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
			UserID: "user-1", SubtaskID: "nope", Status: domain.SubtaskCompleted,
		})
		var notFound EntityNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected EntityNotFoundError, got %v", err)
		}
		if notFound.Kind != domain.KindSubtask {
			t.Fatalf("expected subtask kind, got %q", notFound.Kind)
		}
	})
}
