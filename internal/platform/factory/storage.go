package factory

import (
	"context"
	"fmt"

	"github.com/KIDDASS/memories-instagram-app/internal/config"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
	"github.com/KIDDASS/memories-instagram-app/internal/store/postgres"
	"github.com/KIDDASS/memories-instagram-app/internal/store/sqlite"
)

// NewStore constructs the store selected by the configuration and ensures the
// schema exists.
func NewStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		return postgres.NewWithDB(db), nil
	case "sqlite":
		s, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
