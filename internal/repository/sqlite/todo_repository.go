package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	completed_at INTEGER NULL,
	created_seq INTEGER NOT NULL
);
`

const todoColumns = `id, text, completed, completed_at`

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	id := newID()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO todos (id, text, completed, completed_at, created_seq)
VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM todos))`,
		id,
		todo.Text,
		todo.Completed,
		nullInt(todo.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	todo.ID = id
	return nil
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY created_seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, id string) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

func (r *TodoRepository) Remove(ctx context.Context, id string) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `DELETE FROM todos WHERE id = ? RETURNING `+todoColumns, id)
	return scanTodo(row)
}

func (r *TodoRepository) Update(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	var text sql.NullString
	if update.Text != nil {
		text = sql.NullString{String: *update.Text, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, `
UPDATE todos
SET text = COALESCE(?, text), completed = ?, completed_at = ?
WHERE id = ?
RETURNING `+todoColumns,
		text,
		update.Completed,
		nullInt(update.CompletedAt),
		id,
	)
	return scanTodo(row)
}

func (r *TodoRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, fmt.Errorf("delete todos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("todos rows affected: %w", err)
	}
	return n, nil
}

func scanTodo(row interface {
	Scan(dest ...any) error
}) (*domain.Todo, error) {
	var (
		todo        domain.Todo
		completedAt sql.NullInt64
	)
	if err := row.Scan(&todo.ID, &todo.Text, &todo.Completed, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	if completedAt.Valid {
		v := completedAt.Int64
		todo.CompletedAt = &v
	}
	return &todo, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
