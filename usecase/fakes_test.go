package usecase

import (
	"context"
	"fmt"
	"time"

	"kanban-api/domain"
)

// In-memory repositories backing the usecase tests. Slices keep insertion
// order, which matches the creation-time ordering contract because the fake
// clock is strictly monotonic.

type fakeUsers struct{ items []domain.User }

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range f.items {
		if f.items[i].Email == email {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Save(_ context.Context, user domain.User) error {
	for i := range f.items {
		if f.items[i].ID == user.ID {
			f.items[i] = user
			return nil
		}
	}
	f.items = append(f.items, user)
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeBoards struct{ items []domain.Board }

func (f *fakeBoards) GetByID(_ context.Context, id string) (*domain.Board, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			b := f.items[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBoards) GetByUserID(_ context.Context, userID string) ([]domain.Board, error) {
	var out []domain.Board
	for _, b := range f.items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBoards) GetByUserIDAndName(_ context.Context, userID, name string) (*domain.Board, error) {
	for i := range f.items {
		if f.items[i].UserID == userID && f.items[i].Name == name {
			b := f.items[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBoards) Save(_ context.Context, board domain.Board) error {
	for i := range f.items {
		if f.items[i].ID == board.ID {
			f.items[i] = board
			return nil
		}
	}
	f.items = append(f.items, board)
	return nil
}

func (f *fakeBoards) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeColumns struct{ items []domain.BoardColumn }

func (f *fakeColumns) GetByID(_ context.Context, id string) (*domain.BoardColumn, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeColumns) GetByBoardID(_ context.Context, boardID string) ([]domain.BoardColumn, error) {
	var out []domain.BoardColumn
	for _, c := range f.items {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeColumns) Save(_ context.Context, column domain.BoardColumn) error {
	for i := range f.items {
		if f.items[i].ID == column.ID {
			f.items[i] = column
			return nil
		}
	}
	f.items = append(f.items, column)
	return nil
}

func (f *fakeColumns) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeTasks struct{ items []domain.Task }

func (f *fakeTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			t := f.items[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTasks) GetByColumnID(_ context.Context, columnID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.items {
		if t.ColumnID == columnID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Save(_ context.Context, task domain.Task) error {
	for i := range f.items {
		if f.items[i].ID == task.ID {
			f.items[i] = task
			return nil
		}
	}
	f.items = append(f.items, task)
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeSubtasks struct{ items []domain.Subtask }

func (f *fakeSubtasks) GetByID(_ context.Context, id string) (*domain.Subtask, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubtasks) GetByTaskID(_ context.Context, taskID string) ([]domain.Subtask, error) {
	var out []domain.Subtask
	for _, s := range f.items {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubtasks) Save(_ context.Context, subtask domain.Subtask) error {
	for i := range f.items {
		if f.items[i].ID == subtask.ID {
			f.items[i] = subtask
			return nil
		}
	}
	f.items = append(f.items, subtask)
	return nil
}

func (f *fakeSubtasks) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type tickClock struct {
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainHasher) Compare(hashed, plain string) bool { return hashed == "hash:"+plain }

type fixture struct {
	users    *fakeUsers
	boards   *fakeBoards
	columns  *fakeColumns
	tasks    *fakeTasks
	subtasks *fakeSubtasks
	uc       *Usecases
}

func newFixture() *fixture {
	f := &fixture{
		users:    &fakeUsers{},
		boards:   &fakeBoards{},
		columns:  &fakeColumns{},
		tasks:    &fakeTasks{},
		subtasks: &fakeSubtasks{},
	}
	repos := Repositories{
		Users:    f.users,
		Boards:   f.boards,
		Columns:  f.columns,
		Tasks:    f.tasks,
		Subtasks: f.subtasks,
	}
	f.uc = New(repos, &seqIDs{}, &tickClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, plainHasher{})
	return f
}

func (f *fixture) seedUser(id, email string) domain.User {
	u := domain.User{ID: id, Email: email, CreatedAt: time.Unix(0, 0)}
	f.users.items = append(f.users.items, u)
	return u
}

func (f *fixture) seedBoard(id, userID, name string) domain.Board {
	b := domain.Board{ID: id, UserID: userID, Name: name, CreatedAt: time.Unix(0, 0)}
	f.boards.items = append(f.boards.items, b)
	return b
}

func (f *fixture) seedColumn(id, boardID, name string) domain.BoardColumn {
	c := domain.BoardColumn{ID: id, BoardID: boardID, ColumnName: name, CreatedAt: time.Unix(0, 0)}
	f.columns.items = append(f.columns.items, c)
	return c
}

func (f *fixture) seedTask(id, columnID, title string) domain.Task {
	t := domain.Task{ID: id, ColumnID: columnID, Title: title, CreatedAt: time.Unix(0, 0)}
	f.tasks.items = append(f.tasks.items, t)
	return t
}

func (f *fixture) seedSubtask(id, taskID, description string, status domain.SubtaskStatus) domain.Subtask {
	s := domain.Subtask{ID: id, TaskID: taskID, Description: description, Status: status, CreatedAt: time.Unix(0, 0)}
	f.subtasks.items = append(f.subtasks.items, s)
	return s
}
