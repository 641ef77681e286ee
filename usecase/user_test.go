package usecase

import (
	"context"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCreateUserIsIdempotentByEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.uc.CreateUser(ctx, CreateUserRequest{Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.AlreadyExisted {
		t.Fatal("first create reported a replay")
	}

	second, err := f.uc.CreateUser(ctx, CreateUserRequest{Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExisted {
		t.Fatal("second create should report the existing account")
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected same user id, got %q and %q", first.User.ID, second.User.ID)
	}
	if len(f.users.items) != 1 {
		t.Fatalf("expected a single row, got %d", len(f.users.items))
	}
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.uc.CreateUser(ctx, CreateUserRequest{Email: "Dev@Example.com "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.User.Email != "dev@example.com" {
		t.Fatalf("expected normalized email, got %q", first.User.Email)
	}

	second, err := f.uc.CreateUser(ctx, CreateUserRequest{Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !second.AlreadyExisted {
		t.Fatal("differently cased replay should hit the same account")
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture()

	res, err := f.uc.CreateUser(context.Background(), CreateUserRequest{
		Email:    "dev@example.com",
		Password: strPtr("secret"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.User.Password == nil || *res.User.Password != "hash:secret" {
		t.Fatalf("expected hashed password to be stored, got %v", res.User.Password)
	}
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateUserRequest
		field string
	}{
		{name: "missing email", req: CreateUserRequest{}, field: "email"},
		{name: "malformed email", req: CreateUserRequest{Email: "nope"}, field: "email"},
		{name: "empty password", req: CreateUserRequest{Email: "a@b.c", Password: strPtr("")}, field: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.CreateUser(context.Background(), tt.req)
			var invalid InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if _, ok := invalid.Fields[tt.field]; !ok {
				t.Fatalf("expected %q field error, got %v", tt.field, invalid.Fields)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	newSignInFixture := func() *fixture {
		f := newFixture()
		hash := "hash:secret"
		u := f.seedUser("user-1", "dev@example.com")
		u.Password = &hash
		f.users.items[0] = u
		f.seedUser("user-2", "oauth@example.com")
		return f
	}

	t.Run("valid credentials", func(t *testing.T) {
		f := newSignInFixture()
		user, err := f.uc.SignIn(context.Background(), SignInRequest{Email: "dev@example.com", Password: "secret"})
		if err != nil {
			t.Fatalf("sign in: %v", err)
		}
		if user.ID != "user-1" {
			t.Fatalf("unexpected user: %#v", user)
		}
	})

	badCredentials := []struct {
		name string
		req  SignInRequest
	}{
		{name: "wrong password", req: SignInRequest{Email: "dev@example.com", Password: "nope"}},
		{name: "unknown email", req: SignInRequest{Email: "ghost@example.com", Password: "secret"}},
		{name: "oauth-only account", req: SignInRequest{Email: "oauth@example.com", Password: "secret"}},
	}
	for _, tt := range badCredentials {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignInFixture()
			_, err := f.uc.SignIn(context.Background(), tt.req)
			var invalid InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if _, ok := invalid.Fields["credentials"]; !ok {
				t.Fatalf("expected indistinct credentials error, got %v", invalid.Fields)
			}
		})
	}
}
