package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const createUsersTables = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	access TEXT NOT NULL,
	token TEXT NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_user_tokens_user_id ON user_tokens(user_id);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTables); err != nil {
		return fmt.Errorf("create users tables: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := newID()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash)
VALUES (?, ?, ?)`,
		id,
		user.Email,
		user.PasswordHash,
	); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	for _, token := range user.Tokens {
		if err := insertToken(ctx, tx, id, token); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) AddToken(ctx context.Context, id string, token domain.Token) error {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return insertToken(ctx, r.db, id, token)
}

func (r *UserRepository) FindByToken(ctx context.Context, id string, token domain.Token) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT u.id, u.email, u.password_hash
FROM users u
WHERE u.id = ? AND EXISTS (
	SELECT 1 FROM user_tokens t
	WHERE t.user_id = u.id AND t.access = ? AND t.token = ?
)`,
		id,
		token.Access,
		token.Token,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if user.Tokens, err = r.listTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) listTokens(ctx context.Context, userID string) ([]domain.Token, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT access, token
FROM user_tokens
WHERE user_id = ?
ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user tokens: %w", err)
	}
	defer rows.Close()

	tokens := []domain.Token{}
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.Access, &t.Token); err != nil {
			return nil, fmt.Errorf("scan user token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertToken(ctx context.Context, db execer, userID string, token domain.Token) error {
	if _, err := db.ExecContext(ctx, `
INSERT INTO user_tokens (user_id, access, token)
VALUES (?, ?, ?)`,
		userID,
		token.Access,
		token.Token,
	); err != nil {
		return fmt.Errorf("insert user token: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
