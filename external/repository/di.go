package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/chanpost/internal/config"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const (
	databaseInitTimeout = 15 * time.Second
	databaseMaxConnIdle = 5 * time.Minute
	databaseHealthCheck = time.Minute
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)

		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid database url: %w", err)
		}
		poolCfg.MaxConns = cfg.DatabaseMaxConns
		poolCfg.MaxConnIdleTime = databaseMaxConnIdle
		poolCfg.HealthCheckPeriod = databaseHealthCheck

		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		if err := RunMigration(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate permission schema: %w", err)
		}
		slog.Info("permission store ready", "max_conns", poolCfg.MaxConns)
		return NewPostgresRepository(pool), nil
	})
}
