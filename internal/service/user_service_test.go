package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
	"todo-api/internal/repository/sqlite"
)

func newUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestRegisterAndFindByToken(t *testing.T) {
	repo := newUserRepo(t)
	svc := NewUserService(repo, "abc123", 0)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, " sam@example.com ", "123abc!")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, token)

	stored, err := repo.FindByToken(ctx, user.ID, domain.Token{Access: domain.TokenAccessAuth, Token: token})
	require.NoError(t, err)
	assert.NotEqual(t, "123abc!", stored.PasswordHash)
	require.Len(t, stored.Tokens, 1)
	assert.Equal(t, domain.Token{Access: domain.TokenAccessAuth, Token: token}, stored.Tokens[0])

	found, err := svc.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Email, found.Email)

	t.Run("OtherSecret", func(t *testing.T) {
		_, err := NewUserService(repo, "other", 0).FindByToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("Garbage", func(t *testing.T) {
		for _, tok := range []string{"", "abc", token + "x"} {
			_, err := svc.FindByToken(ctx, tok)
			assert.ErrorIs(t, err, ErrUnauthorized, tok)
		}
	})
	t.Run("SignedButNeverIssued", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
			UserID: user.ID,
			Access: domain.TokenAccessAuth,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("abc123"))
		require.NoError(t, err)

		_, err = svc.FindByToken(ctx, forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("WrongAccess", func(t *testing.T) {
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
			UserID: primitive.NewObjectID().Hex(),
			Access: "reset",
		}).SignedString([]byte("abc123"))
		require.NoError(t, err)

		_, err = svc.FindByToken(ctx, other)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newUserRepo(t), "abc123", 0)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "")
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.ValidationError))

	_, _, err = svc.Register(ctx, "jen@example.com", "123")
	assert.ErrorAs(t, err, new(*domain.ValidationError))

	_, _, err = svc.Register(ctx, "jen@example.com", "userTwoPass")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "jen@example.com", "userTwoPass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestExpiredToken(t *testing.T) {
	repo := newUserRepo(t)
	svc := NewUserService(repo, "abc123", time.Minute).(*userService)
	ctx := context.Background()

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	_, token, err := svc.Register(ctx, "late@example.com", "123abc!")
	require.NoError(t, err)

	_, err = svc.FindByToken(ctx, token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.FindByToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
