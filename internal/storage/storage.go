package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"todo-api/internal/config"
	"todo-api/internal/repository"
	"todo-api/internal/repository/mongodb"
	"todo-api/internal/repository/sqlite"
)

// Stores bundles the repositories backed by one database connection.
type Stores struct {
	Todos repository.TodoRepository
	Users repository.UserRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the database selected by cfg and initializes its repositories.
func Open(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Stores, error) {
	var (
		stores *Stores
		err    error
	)
	switch cfg.Database.Driver {
	case config.DriverMongo:
		stores, err = openMongo(ctx, cfg, logger)
	case config.DriverSQLite:
		stores, err = openSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	defer cancel()
	if err := stores.Todos.Init(initCtx); err != nil {
		_ = stores.Close(context.Background())
		return nil, fmt.Errorf("init todo repository: %w", err)
	}
	if err := stores.Users.Init(initCtx); err != nil {
		_ = stores.Close(context.Background())
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	return stores, nil
}

func openMongo(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Stores, error) {
	client, err := mongodb.Connect(ctx, cfg.Database.URI, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database.Name)
	logger.Infof("using mongodb database %s", cfg.Database.Name)

	return &Stores{
		Todos: mongodb.NewTodoRepository(db),
		Users: mongodb.NewUserRepository(db),
		close: func(ctx context.Context) error { return disconnect(ctx, client) },
	}, nil
}

func openSQLite(cfg config.Config, logger *logrus.Logger) (*Stores, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	logger.Infof("using sqlite database %s", cfg.Database.Path)
	return NewSQLiteStores(db), nil
}

// NewSQLiteStores wraps an already open sqlite handle. Closing the stores closes db.
func NewSQLiteStores(db *sql.DB) *Stores {
	return &Stores{
		Todos: sqlite.NewTodoRepository(db),
		Users: sqlite.NewUserRepository(db),
		close: func(context.Context) error { return db.Close() },
	}
}

func disconnect(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}
