package repository

import (
	"context"

	"todo-api/internal/domain"
)

// TodoRepository exposes persistence operations for Todo documents.
// Lookups that match nothing return domain.ErrNotFound.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) error
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id string) (*domain.Todo, error)
	// Remove deletes the todo and returns it as it was before removal.
	Remove(ctx context.Context, id string) (*domain.Todo, error)
	// Update applies the update and returns the document after the change.
	Update(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error)
	Clear(ctx context.Context) (int64, error)
}
