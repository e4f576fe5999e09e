package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModeratorRepository maps identity-provider accounts to chat-platform ids.
// Used as the last extraction strategy when the provider token carries no
// linked id itself.
type ModeratorRepository interface {
	LinkedChatID(ctx context.Context, identityUserID string) (string, error)
}

type moderatorRepository struct {
	pool *pgxpool.Pool
}

// NewModeratorRepository instantiates repository.
func NewModeratorRepository(pool *pgxpool.Pool) ModeratorRepository {
	return &moderatorRepository{pool: pool}
}

func (r *moderatorRepository) LinkedChatID(ctx context.Context, identityUserID string) (string, error) {
	const query = `SELECT chat_user_id FROM moderators WHERE identity_user_id=$1`
	var chatID string
	if err := r.pool.QueryRow(ctx, query, identityUserID).Scan(&chatID); err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return chatID, nil
}
