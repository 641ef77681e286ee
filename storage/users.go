package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"kanban-api/domain"
)

type userRow struct {
	ID        string  `db:"id"`
	Email     string  `db:"email"`
	Password  *string `db:"password"`
	CreatedAt int64   `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Password:  r.Password,
		CreatedAt: fromUnixNano(r.CreatedAt),
	}
}

// UserStore persists users in the users table.
type UserStore struct {
	db *sqlx.DB
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT id, email, password, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := row.toDomain()
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT id, email, password, created_at FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := row.toDomain()
	return &u, nil
}

func (s *UserStore) Save(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET email = excluded.email, password = excluded.password`,
		user.ID, user.Email, user.Password, toUnixNano(user.CreatedAt))
	return err
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
