package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain"
	"todo-api/internal/repository/sqlite"
	"todo-api/internal/service"
)

type resolverFunc func(ctx context.Context, token string) (*domain.User, error)

func (f resolverFunc) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	return f(ctx, token)
}

func TestAuthenticate(t *testing.T) {
	alice := &domain.User{ID: "64b7f0c2a1b2c3d4e5f60718", Email: "alice@example.com"}
	resolver := resolverFunc(func(_ context.Context, token string) (*domain.User, error) {
		switch token {
		case "good":
			return alice, nil
		case "broken":
			return nil, errors.New("lookup failed")
		default:
			return nil, nil
		}
	})

	var reached bool
	router := gin.New()
	router.GET("/protected", Authenticate(resolver), func(c *gin.Context) {
		reached = true
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": CurrentToken(c)})
	})

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if token != "" {
			req.Header.Set(HeaderAuth, token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	for name, token := range map[string]string{
		"Missing":      "",
		"Unresolvable": "unknown",
		"LookupFails":  "broken",
	} {
		t.Run(name, func(t *testing.T) {
			reached = false
			rec := call(token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.False(t, reached)
		})
	}

	t.Run("Resolved", func(t *testing.T) {
		reached = false
		rec := call("good")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, alice.ID, body["id"])
		assert.Equal(t, "good", body["token"])
	})
}

func TestUserRoutes(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	todos := sqlite.NewTodoRepository(db)
	users := sqlite.NewUserRepository(db)
	require.NoError(t, todos.Init(ctx))
	require.NoError(t, users.Init(ctx))

	router := newRouter(todos, service.NewUserService(users, "test-secret", 0))

	rec := serve(router, http.MethodPost, "/users", gin.H{"email": "sam@example.com", "password": "123abc!"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get(HeaderAuth)
	require.NotEmpty(t, token)

	var created UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "sam@example.com", created.Email)
	assert.True(t, service.IsValidID(created.ID))
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("Me", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set(HeaderAuth, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var me UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		assert.Equal(t, created, me)
	})
	t.Run("MeWithoutToken", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/users/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
	t.Run("DuplicateEmail", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/users", gin.H{"email": "sam@example.com", "password": "another1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("InvalidBody", func(t *testing.T) {
		for _, body := range []gin.H{
			{"email": "not-an-email", "password": "123abc!"},
			{"email": "jen@example.com", "password": "123"},
			{},
		} {
			rec := serve(router, http.MethodPost, "/users", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
		}
	})
	t.Run("TodosStayUnauthenticated", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/todos", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUserRoutesDisabledWithoutService(t *testing.T) {
	router := newRouter(&recordingRepo{}, nil)

	rec := serve(router, http.MethodPost, "/users", gin.H{"email": "sam@example.com", "password": "123abc!"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
