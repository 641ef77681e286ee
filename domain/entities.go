package domain

import "time"

// User owns boards. Password is nil for accounts provisioned through a
// federated sign-in and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  *string   `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Board is the root of the ownership chain below a user.
type Board struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BoardColumn groups tasks inside a board, ordered by creation time.
type BoardColumn struct {
	ID         string    `json:"id"`
	BoardID    string    `json:"boardId"`
	ColumnName string    `json:"columnName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Task is a single card inside a column.
type Task struct {
	ID          string    `json:"id"`
	ColumnID    string    `json:"columnId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subtask is a checklist entry of a task.
type Subtask struct {
	ID          string        `json:"id"`
	TaskID      string        `json:"taskId"`
	Description string        `json:"description"`
	Status      SubtaskStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}
