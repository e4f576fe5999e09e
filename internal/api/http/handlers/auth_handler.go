package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/auth"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// AuthHandler exposes the caller's own identity.
type AuthHandler struct {
	resolver *auth.ContextResolver
}

// NewAuthHandler constructs handler.
func NewAuthHandler(resolver *auth.ContextResolver) *AuthHandler {
	return &AuthHandler{resolver: resolver}
}

// Me handles GET /auth/me: the verified identity plus its linked chat id.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authenticated identity")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":      user.ID,
			"email":   user.Email,
			"chat_id": h.resolver.ChatID(c.UserContext(), user),
		},
	})
}
