package service

import (
	"context"
	"time"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// TodoService coordinates todo operations backed by a TodoRepository.
// Operations taking an id return domain.ErrNotFound for malformed ids
// without consulting the repository.
type TodoService interface {
	CreateTodo(ctx context.Context, text any) (*domain.Todo, error)
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	GetTodo(ctx context.Context, id string) (*domain.Todo, error)
	RemoveTodo(ctx context.Context, id string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, id string, payload map[string]any) (*domain.Todo, error)
	ClearTodos(ctx context.Context) (int64, error)
}

type todoService struct {
	todos repository.TodoRepository
	now   func() time.Time
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{
		todos: todos,
		now:   time.Now,
	}
}

func (s *todoService) CreateTodo(ctx context.Context, text any) (*domain.Todo, error) {
	if text == nil {
		return nil, domain.NewValidationError("Todo", textRequired())
	}
	cast, err := castText(text)
	if err != nil {
		return nil, domain.NewValidationError("Todo", textCastFailed(err))
	}
	if cast == "" {
		return nil, domain.NewValidationError("Todo", textRequired())
	}

	todo := &domain.Todo{Text: cast}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	return s.todos.List(ctx)
}

func (s *todoService) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	if !IsValidID(id) {
		return nil, domain.ErrNotFound
	}
	return s.todos.Get(ctx, id)
}

func (s *todoService) RemoveTodo(ctx context.Context, id string) (*domain.Todo, error) {
	if !IsValidID(id) {
		return nil, domain.ErrNotFound
	}
	return s.todos.Remove(ctx, id)
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, payload map[string]any) (*domain.Todo, error) {
	fields := ProjectTodoFields(payload)
	if !IsValidID(id) {
		return nil, domain.ErrNotFound
	}

	update, err := NormalizeCompletion(fields, s.now()).ToUpdate()
	if err != nil {
		return nil, err
	}
	return s.todos.Update(ctx, id, update)
}

func (s *todoService) ClearTodos(ctx context.Context) (int64, error) {
	return s.todos.Clear(ctx)
}
