package usecase

import (
	"context"
	"strings"

	"kanban-api/domain"
)

type CreateUserRequest struct {
	Email    string
	Password *string
}

// CreateUserResult distinguishes a fresh account from a replayed
// provisioning attempt so callers can tell them apart.
type CreateUserResult struct {
	User           domain.User
	AlreadyExisted bool
}

// CreateUser provisions an account, upserting by email: if a user with that
// email already exists the call is an idempotent sign-on and returns the
// existing user. The federated sign-in callback relies on this to survive
// retries after a prior attempt already created the account.
func (u *Usecases) CreateUser(ctx context.Context, req CreateUserRequest) (CreateUserResult, error) {
	fields := fieldErrors{}
	email := normalizeEmail(req.Email)
	if email == "" {
		fields.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		fields.add("email", "email must be a valid address")
	}
	if req.Password != nil && *req.Password == "" {
		fields.add("password", "password must not be empty")
	}
	if err := fields.err(); err != nil {
		return CreateUserResult{}, err
	}

	existing, err := u.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return CreateUserResult{}, err
	}
	if existing != nil {
		return CreateUserResult{User: *existing, AlreadyExisted: true}, nil
	}

	var hashed *string
	if req.Password != nil {
		h, err := u.hasher.Hash(*req.Password)
		if err != nil {
			return CreateUserResult{}, err
		}
		hashed = &h
	}

	user := domain.User{
		ID:        u.ids.NewID(),
		Email:     email,
		Password:  hashed,
		CreatedAt: u.clock.Now(),
	}
	if err := u.repos.Users.Save(ctx, user); err != nil {
		return CreateUserResult{}, err
	}
	return CreateUserResult{User: user}, nil
}

type SignInRequest struct {
	Email    string
	Password string
}

// SignIn checks a password against the stored hash. Unknown emails, accounts
// without a password, and mismatches all yield the same invalid-credentials
// answer so the response does not reveal which accounts exist.
func (u *Usecases) SignIn(ctx context.Context, req SignInRequest) (*domain.User, error) {
	fields := fieldErrors{}
	email := normalizeEmail(req.Email)
	if email == "" {
		fields.add("email", "email is required")
	}
	if req.Password == "" {
		fields.add("password", "password is required")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	user, err := u.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == nil || !u.hasher.Compare(*user.Password, req.Password) {
		return nil, invalidInput("credentials", "invalid email or password")
	}
	return user, nil
}
