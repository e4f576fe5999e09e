package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// SettingsRepository stores the per-guild settings JSON blob.
type SettingsRepository interface {
	Get(ctx context.Context, guildID string) (domain.Settings, error)
	Upsert(ctx context.Context, guildID string, settings domain.Settings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context, guildID string) (domain.Settings, error) {
	const query = `SELECT settings FROM server_config WHERE guild_id=$1`
	var settings domain.Settings
	if err := r.pool.QueryRow(ctx, query, guildID).Scan(&settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, guildID string, settings domain.Settings) error {
	const query = `
        INSERT INTO server_config (guild_id, settings)
        VALUES ($1,$2)
        ON CONFLICT (guild_id) DO UPDATE SET settings=EXCLUDED.settings, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, guildID, settings)
	return err
}
