package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/auth"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// moderatorForGuild resolves the authenticated caller against the request's
// guild. The auth middleware guarantees an identity is present; a missing
// one means the route was registered outside the protected group.
func moderatorForGuild(c *fiber.Ctx, resolver *auth.ContextResolver) (*auth.ModeratorContext, error) {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing authenticated identity")
	}
	return resolver.Resolve(c.UserContext(), user, c.Params("guild_id"))
}
