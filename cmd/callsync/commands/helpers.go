package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/simard-insights/callsync/internal/cache"
	"github.com/simard-insights/callsync/internal/config"
	"github.com/simard-insights/callsync/internal/ingest"
	"github.com/simard-insights/callsync/internal/observability"
	"github.com/simard-insights/callsync/internal/store"
)

// closableStore is what the backends provide beyond the pipeline's needs.
type closableStore interface {
	ingest.Store
	Close() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
	if noColor {
		color.NoColor = true
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "callsync",
	})
}

func buildStore(ctx context.Context, cfg *config.Config) (closableStore, error) {
	switch cfg.Store.Driver {
	case "firestore":
		return store.NewFirestoreStore(ctx, store.FirestoreConfig{
			ProjectID:       cfg.Store.Firestore.ProjectID,
			CredentialsFile: cfg.Store.Firestore.CredentialsFile,
			AppID:           cfg.Store.Firestore.AppID,
		})
	case "postgres":
		return store.NewPostgresStore(ctx, store.PostgresConfig{
			DSN:             cfg.Store.Postgres.DSN,
			MaxOpenConns:    cfg.Store.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Store.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.Postgres.ConnMaxLifetime,
		})
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

func buildCache(cfg *config.Config) (cache.Client, error) {
	switch cfg.Cache.Driver {
	case "redis":
		return cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
	case "memory":
		return cache.NewMemoryClient(), nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Cache.Driver)
	}
}
