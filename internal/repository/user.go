package repository

import (
	"context"
	"errors"

	"todo-api/internal/domain"
)

// ErrDuplicate is returned when a unique field is already taken.
var ErrDuplicate = errors.New("duplicate key")

// UserRepository defines persistence operations for User documents.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	AddToken(ctx context.Context, id string, token domain.Token) error
	// FindByToken returns the user with the given id only if it holds token.
	FindByToken(ctx context.Context, id string, token domain.Token) (*domain.User, error)
}
