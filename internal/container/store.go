package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/config"
	repo "github.com/oksasatya/petaverse-auth/internal/domain/repository"
	"github.com/oksasatya/petaverse-auth/internal/infrastructure/memory"
	"github.com/oksasatya/petaverse-auth/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/petaverse-auth/internal/infrastructure/postgres"
)

// Store is an opened user store and the function that releases it.
type Store struct {
	Users repo.UserRepository
	Close func(context.Context) error
}

// OpenStore connects the backend named by STORE_DRIVER and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Store{
			Users: pginfra.NewUserRepository(pool),
			Close: func(context.Context) error { pool.Close(); return nil },
		}, nil

	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		users := mongodb.NewUserRepository(client.Database(cfg.MongoDatabase))
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Store{Users: users, Close: client.Disconnect}, nil

	case config.StoreMemory:
		logger.Warn("using in-memory user store; data is lost on restart")
		return &Store{
			Users: memory.NewUserRepository(),
			Close: func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
