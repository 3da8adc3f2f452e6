package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the subset of pgxpool.Pool the repository needs.
type pool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	pool pool
}

func NewPostgresRepository(p pool) repository.Repository {
	return &PostgresRepository{pool: p}
}

// SyncChannelAdmins replaces every permission of the channel in one
// transaction, so readers never observe a channel without permissions.
func (r *PostgresRepository) SyncChannelAdmins(ctx context.Context, input repository.SyncChannelAdminsInput) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO channels (channel_id, title) VALUES ($1, $2)
		 ON CONFLICT (channel_id) DO UPDATE SET title = EXCLUDED.title`,
		input.ChannelID, input.Title); err != nil {
		return fmt.Errorf("upsert channel %s: %w", input.ChannelID, err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM permissions WHERE channel_id = $1`,
		input.ChannelID); err != nil {
		return fmt.Errorf("clear permissions of %s: %w", input.ChannelID, err)
	}
	for _, admin := range input.Admins {
		// Upsert rather than replace: a delete would cascade away the user's
		// permissions in other channels.
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (user_id, display_name) VALUES ($1, $2)
			 ON CONFLICT (user_id) DO UPDATE SET display_name = EXCLUDED.display_name`,
			admin.UserID, admin.DisplayName); err != nil {
			return fmt.Errorf("upsert user %d: %w", admin.UserID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO permissions (user_id, channel_id, is_owner) VALUES ($1, $2, $3)`,
			admin.UserID, input.ChannelID, admin.IsOwner); err != nil {
			return fmt.Errorf("insert permission %d/%s: %w", admin.UserID, input.ChannelID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sync tx: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserChannels(ctx context.Context, userID int64, role repository.Role) ([]repository.ChannelRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.title, c.channel_id
		 FROM channels c
		 JOIN permissions p ON c.channel_id = p.channel_id
		 WHERE p.user_id = $1 AND p.is_owner = $2
		 ORDER BY c.title ASC, c.channel_id ASC`,
		userID, role == repository.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("query user channels: %w", err)
	}
	defer rows.Close()
	var list []repository.ChannelRef
	for rows.Next() {
		var ref repository.ChannelRef
		if err := rows.Scan(&ref.Title, &ref.ChannelID); err != nil {
			return nil, fmt.Errorf("scan user channel: %w", err)
		}
		list = append(list, ref)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) IsUserOwner(ctx context.Context, userID int64, channelID string) (bool, error) {
	var isOwner bool
	err := r.pool.QueryRow(ctx,
		`SELECT is_owner FROM permissions WHERE user_id = $1 AND channel_id = $2`,
		userID, channelID).Scan(&isOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query owner flag: %w", err)
	}
	return isOwner, nil
}

func (r *PostgresRepository) RemoveUserPermission(ctx context.Context, userID int64, channelID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM permissions WHERE user_id = $1 AND channel_id = $2`,
		userID, channelID)
	if err != nil {
		return fmt.Errorf("delete permission %d/%s: %w", userID, channelID, err)
	}
	return nil
}

// DeleteChannel relies on ON DELETE CASCADE to drop the channel's permissions.
func (r *PostgresRepository) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE channel_id = $1`, channelID)
	if err != nil {
		return fmt.Errorf("delete channel %s: %w", channelID, err)
	}
	return nil
}

func (r *PostgresRepository) GetChannelTitle(ctx context.Context, channelID string) (string, error) {
	var title string
	err := r.pool.QueryRow(ctx,
		`SELECT title FROM channels WHERE channel_id = $1`,
		channelID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.UnknownChannelTitle, nil
		}
		return "", fmt.Errorf("query channel title: %w", err)
	}
	return title, nil
}

func (r *PostgresRepository) GetChannelOwnerID(ctx context.Context, channelID string) (int64, bool, error) {
	var ownerID int64
	err := r.pool.QueryRow(ctx,
		`SELECT user_id FROM permissions WHERE channel_id = $1 AND is_owner LIMIT 1`,
		channelID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query channel owner: %w", err)
	}
	return ownerID, true, nil
}
