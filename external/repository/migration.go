package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS channels (
		channel_id TEXT PRIMARY KEY,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		display_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		channel_id TEXT NOT NULL REFERENCES channels(channel_id) ON DELETE CASCADE,
		is_owner BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (user_id, channel_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_permissions_channel ON permissions (channel_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_permissions_single_owner ON permissions (channel_id) WHERE is_owner`,
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func RunMigration(ctx context.Context, db execer) error {
	for i, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i, err)
		}
	}
	return nil
}
