package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// ActivityRepository appends and reads the member activity feed.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityEntry) error
	CreateBatch(ctx context.Context, entries []domain.ActivityEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

const activityInsert = `
        INSERT INTO server_activity_logs (guild_id, user_id, username, activity_type, content, details, channel_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	return r.pool.QueryRow(ctx, activityInsert,
		entry.GuildID,
		entry.UserID,
		entry.Username,
		entry.Type,
		entry.Content,
		entry.Details,
		entry.ChannelID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityRepository) CreateBatch(ctx context.Context, entries []domain.ActivityEntry) error {
	for i := range entries {
		if err := r.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	const query = `
        SELECT id, guild_id, user_id, username, activity_type, content, details, channel_id, created_at
        FROM server_activity_logs WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.UserID,
			&entry.Username,
			&entry.Type,
			&entry.Content,
			&entry.Details,
			&entry.ChannelID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
