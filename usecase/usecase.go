// Package usecase implements every authorized board operation. Each usecase
// validates the requesting user, resolves the target's ownership chain,
// applies field validation, and only then touches the repositories. Failures
// surface as one of the classified errors in errors.go; anything else is a
// storage fault and propagates unchanged.
package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Usecases bundles the injected dependencies shared by all operations.
type Usecases struct {
	repos    Repositories
	resolver resolver
	ids      IdentifierGenerator
	clock    Clock
	hasher   Hasher
}

func New(repos Repositories, ids IdentifierGenerator, clock Clock, hasher Hasher) *Usecases {
	return &Usecases{
		repos:    repos,
		resolver: resolver{repos: repos},
		ids:      ids,
		clock:    clock,
		hasher:   hasher,
	}
}

// UUIDGenerator is the production IdentifierGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// UTCClock is the production Clock.
type UTCClock struct{}

func (UTCClock) Now() time.Time { return time.Now().UTC() }

// BcryptHasher is the production Hasher.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
