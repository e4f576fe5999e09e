package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// ModerationRepository persists warnings and bans issued through the service.
type ModerationRepository interface {
	CreateWarning(ctx context.Context, warning *domain.Warning) error
	CreateBan(ctx context.Context, ban *domain.Ban) error
	ListWarnings(ctx context.Context, guildID, userID string, limit int) ([]domain.Warning, error)
}

type moderationRepository struct {
	pool *pgxpool.Pool
}

// NewModerationRepository instantiates repository.
func NewModerationRepository(pool *pgxpool.Pool) ModerationRepository {
	return &moderationRepository{pool: pool}
}

func (r *moderationRepository) CreateWarning(ctx context.Context, warning *domain.Warning) error {
	const query = `
        INSERT INTO warnings (guild_id, user_id, moderator_id, reason)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		warning.GuildID,
		warning.UserID,
		warning.ModeratorID,
		warning.Reason,
	).Scan(&warning.ID, &warning.CreatedAt)
}

func (r *moderationRepository) CreateBan(ctx context.Context, ban *domain.Ban) error {
	const query = `
        INSERT INTO bans (guild_id, user_id, moderator_id, reason)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ban.GuildID,
		ban.UserID,
		ban.ModeratorID,
		ban.Reason,
	).Scan(&ban.ID, &ban.CreatedAt)
}

func (r *moderationRepository) ListWarnings(ctx context.Context, guildID, userID string, limit int) ([]domain.Warning, error) {
	if limit <= 0 {
		limit = 25
	}
	const query = `
        SELECT id, guild_id, user_id, moderator_id, reason, created_at
        FROM warnings WHERE guild_id=$1 AND user_id=$2
        ORDER BY created_at DESC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, guildID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Warning
	for rows.Next() {
		var w domain.Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
