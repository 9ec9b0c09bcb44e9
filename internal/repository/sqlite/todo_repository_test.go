package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/internal/domain"
)

func newTodoRepo(t *testing.T) *TodoRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewTodoRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	require.NoError(t, repo.Init(context.Background()), "init must be idempotent")
	return repo.(*TodoRepository)
}

func TestTodoRepositoryLifecycle(t *testing.T) {
	repo := newTodoRepo(t)
	ctx := context.Background()

	first := domain.Todo{Text: "first"}
	require.NoError(t, repo.Create(ctx, &first))
	assert.True(t, primitive.IsValidObjectID(first.ID))

	at := int64(333)
	second := domain.Todo{Text: "second", Completed: true, CompletedAt: &at}
	require.NoError(t, repo.Create(ctx, &second))

	todos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, first, todos[0])
	assert.Equal(t, second, todos[1])

	got, err := repo.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, *got)

	text := "renamed"
	updated, err := repo.Update(ctx, second.ID, domain.TodoUpdate{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, domain.Todo{ID: second.ID, Text: "renamed"}, *updated)

	now := int64(1700000000000)
	updated, err = repo.Update(ctx, first.ID, domain.TodoUpdate{Completed: true, CompletedAt: &now})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Text)
	assert.True(t, updated.Completed)
	assert.Equal(t, &now, updated.CompletedAt)

	removed, err := repo.Remove(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, removed.ID)
	assert.True(t, removed.Completed)

	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Remove(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Update(ctx, first.ID, domain.TodoUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	todos, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}
