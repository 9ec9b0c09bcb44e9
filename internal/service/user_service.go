package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

var (
	// ErrUnauthorized indicates that a token could not be resolved to a user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserAlreadyExists is returned when attempting to register with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

const minPasswordLength = 6

// UserService describes user lifecycle operations.
type UserService interface {
	// Register stores a new user and returns it with a freshly issued auth token.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	// FindByToken resolves an auth token to the user holding it.
	FindByToken(ctx context.Context, token string) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewUserService builds a UserService signing tokens with secret. A zero
// tokenTTL issues tokens that never expire.
func NewUserService(users repository.UserRepository, secret string, tokenTTL time.Duration) UserService {
	return &userService{
		users:    users,
		secret:   []byte(strings.TrimSpace(secret)),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

type authClaims struct {
	UserID string `json:"_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)

	var invalid []domain.FieldError
	if email == "" {
		invalid = append(invalid, domain.FieldError{Path: "email", Kind: "required", Message: "Path `email` is required."})
	}
	if password == "" {
		invalid = append(invalid, domain.FieldError{Path: "password", Kind: "required", Message: "Path `password` is required."})
	} else if len(password) < minPasswordLength {
		invalid = append(invalid, domain.FieldError{
			Path:    "password",
			Kind:    "minlength",
			Message: fmt.Sprintf("Path `password` is shorter than the minimum allowed length (%d).", minPasswordLength),
		})
	}
	if len(invalid) > 0 {
		return nil, "", domain.NewValidationError("User", invalid...)
	}
	if len(s.secret) == 0 {
		return nil, "", fmt.Errorf("token secret is not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.generateAuthToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	authToken := domain.Token{Access: domain.TokenAccessAuth, Token: token}
	if err := s.users.AddToken(ctx, user.ID, authToken); err != nil {
		return nil, "", fmt.Errorf("store auth token: %w", err)
	}
	user.Tokens = append(user.Tokens, authToken)

	return sanitizeUser(user), token, nil
}

func (s *userService) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(s.secret) == 0 {
		return nil, ErrUnauthorized
	}

	var claims authClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Access != domain.TokenAccessAuth || claims.UserID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByToken(ctx, claims.UserID, domain.Token{
		Access: domain.TokenAccessAuth,
		Token:  token,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) generateAuthToken(userID string) (string, error) {
	now := s.now()
	claims := authClaims{
		UserID: userID,
		Access: domain.TokenAccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign auth token: %w", err)
	}
	return signed, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:    user.ID,
		Email: user.Email,
	}
}
