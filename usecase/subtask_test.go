package usecase

import (
	"context"
	"errors"
	"testing"

	"kanban-api/domain"
)

func TestCreateSubtask(t *testing.T) {
	f := newFixture()
	seedChain(f)

	sub, err := f.uc.CreateSubtask(context.Background(), CreateSubtaskRequest{
		UserID:      "user-1",
		TaskID:      "task-1",
		Description: "Draft the docs",
	})
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}
	if sub.TaskID != "task-1" || sub.Description != "Draft the docs" {
		t.Fatalf("unexpected subtask: %#v", sub)
	}
	if sub.Status != domain.SubtaskInProgress {
		t.Fatalf("new subtask should start in progress, got %q", sub.Status)
	}
}

func TestCreateSubtaskEmptyDescription(t *testing.T) {
	f := newFixture()
	seedChain(f)

	_, err := f.uc.CreateSubtask(context.Background(), CreateSubtaskRequest{
		UserID: "user-1",
		TaskID: "task-1",
	})

	var invalid InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if _, ok := invalid.Fields["description"]; !ok {
		t.Fatalf("expected description error, got %v", invalid.Fields)
	}
}

func TestUpdateSubtaskStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	seedChain(f)

	_, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
		UserID:    "user-1",
		SubtaskID: "subtask-1",
		Status:    "done",
	})

	var invalid InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if _, ok := invalid.Fields["status"]; !ok {
		t.Fatalf("expected status error, got %v", invalid.Fields)
	}
}

func TestUpdateSubtaskStatusResolvesChainBeforeStatusCheck(t *testing.T) {
	f := newFixture()
	seedChain(f)
	f.seedUser("user-2", "intruder@example.com")

	_, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
		UserID:    "user-2",
		SubtaskID: "subtask-1",
		Status:    "done",
	})
	var unauthorized UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("foreign subtask must win over the bad status, got %v", err)
	}

	_, err = f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
		UserID:    "user-1",
		SubtaskID: "missing",
		Status:    "done",
	})
	var notFound EntityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("missing subtask must win over the bad status, got %v", err)
	}
	if notFound.Kind != domain.KindSubtask {
		t.Fatalf("expected subtask reported missing, got %q", notFound.Kind)
	}
}

func TestUpdateSubtaskStatusTouchesOnlyStatus(t *testing.T) {
	f := newFixture()
	seedChain(f)

	sub, err := f.uc.UpdateSubtaskStatus(context.Background(), UpdateSubtaskStatusRequest{
		UserID:    "user-1",
		SubtaskID: "subtask-1",
		Status:    domain.SubtaskCompleted,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if sub.Status != domain.SubtaskCompleted {
		t.Fatalf("expected completed, got %q", sub.Status)
	}
	if sub.Description != "Write tests" || sub.TaskID != "task-1" {
		t.Fatalf("unrelated fields changed: %#v", sub)
	}
}

func TestDeleteSubtask(t *testing.T) {
	f := newFixture()
	seedChain(f)

	if err := f.uc.DeleteSubtask(context.Background(), DeleteSubtaskRequest{UserID: "user-1", SubtaskID: "subtask-1"}); err != nil {
		t.Fatalf("delete subtask: %v", err)
	}
	if len(f.subtasks.items) != 0 {
		t.Fatalf("subtask row should be gone: %#v", f.subtasks.items)
	}
	if len(f.tasks.items) != 1 {
		t.Fatal("parent task must survive")
	}
}

func TestGetSubtasks(t *testing.T) {
	f := newFixture()
	seedChain(f)
	f.seedSubtask("subtask-2", "task-1", "Review", domain.SubtaskCompleted)

	subs, err := f.uc.GetSubtasks(context.Background(), GetSubtasksRequest{UserID: "user-1", TaskID: "task-1"})
	if err != nil {
		t.Fatalf("get subtasks: %v", err)
	}
	if len(subs) != 2 || subs[0].ID != "subtask-1" || subs[1].ID != "subtask-2" {
		t.Fatalf("unexpected subtasks: %#v", subs)
	}
}
