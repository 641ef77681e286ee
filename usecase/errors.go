package usecase

import (
	"fmt"
	"sort"
	"strings"

	"kanban-api/domain"
)

// InvalidInputError signals a malformed request: a field constraint was
// violated or the requesting user id is unknown. Fields maps a field name to
// its violation message so a caller can surface every error at once.
type InvalidInputError struct {
	Fields map[string]string
}

func (e InvalidInputError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func invalidInput(field, msg string) InvalidInputError {
	return InvalidInputError{Fields: map[string]string{field: msg}}
}

// EntityNotFoundError reports the first missing link found while resolving an
// ownership chain child to parent.
type EntityNotFoundError struct {
	Kind domain.EntityKind
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Kind)
}

// UnauthorizedError is raised after the full chain resolved to a board owned
// by somebody else. It deliberately carries no detail about the actual owner.
type UnauthorizedError struct{}

func (UnauthorizedError) Error() string { return "unauthorized" }

// ConflictError reports a uniqueness violation the caller may resolve by
// retrying with different input.
type ConflictError struct {
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}
