package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// RolesRepository stores synced role snapshots keyed by (guild, role).
type RolesRepository interface {
	UpsertBatch(ctx context.Context, roles []domain.RoleSnapshot) error
}

type rolesRepository struct {
	pool *pgxpool.Pool
}

// NewRolesRepository instantiates repository.
func NewRolesRepository(pool *pgxpool.Pool) RolesRepository {
	return &rolesRepository{pool: pool}
}

func (r *rolesRepository) UpsertBatch(ctx context.Context, roles []domain.RoleSnapshot) error {
	const query = `
        INSERT INTO server_roles (guild_id, role_id, name, color, position, permissions, mentionable, managed, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        ON CONFLICT (guild_id, role_id) DO UPDATE SET
            name=EXCLUDED.name, color=EXCLUDED.color, position=EXCLUDED.position,
            permissions=EXCLUDED.permissions, mentionable=EXCLUDED.mentionable,
            managed=EXCLUDED.managed, updated_at=NOW()`
	for _, role := range roles {
		if _, err := r.pool.Exec(ctx, query,
			role.GuildID,
			role.RoleID,
			role.Name,
			role.Color,
			role.Position,
			role.Permissions,
			role.Mentionable,
			role.Managed,
		); err != nil {
			return err
		}
	}
	return nil
}
