package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/dto"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/service"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// ModerationHandler exposes warn/ban/kick and the role sync endpoint.
type ModerationHandler struct {
	moderation *service.ModerationService
	resolver   *auth.ContextResolver
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderation *service.ModerationService, resolver *auth.ContextResolver) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, resolver: resolver}
}

// Warn handles POST /servers/:guild_id/members/:member_id/warn.
func (h *ModerationHandler) Warn(c *fiber.Ctx) error {
	mod, reason, err := h.action(c)
	if err != nil {
		return err
	}
	warning, err := h.moderation.Warn(c.UserContext(), mod, c.Params("guild_id"), c.Params("member_id"), reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.WarningResponse{
		ID:          warning.ID,
		UserID:      warning.UserID,
		ModeratorID: warning.ModeratorID,
		Reason:      warning.Reason,
		CreatedAt:   warning.CreatedAt,
	}})
}

// Ban handles POST /servers/:guild_id/members/:member_id/ban.
func (h *ModerationHandler) Ban(c *fiber.Ctx) error {
	mod, reason, err := h.action(c)
	if err != nil {
		return err
	}
	ban, err := h.moderation.Ban(c.UserContext(), mod, c.Params("guild_id"), c.Params("member_id"), reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":         ban.ID,
		"user_id":    ban.UserID,
		"reason":     ban.Reason,
		"created_at": ban.CreatedAt,
	}})
}

// Kick handles POST /servers/:guild_id/members/:member_id/kick.
func (h *ModerationHandler) Kick(c *fiber.Ctx) error {
	mod, reason, err := h.action(c)
	if err != nil {
		return err
	}
	if err := h.moderation.Kick(c.UserContext(), mod, c.Params("guild_id"), c.Params("member_id"), reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"kicked": true}})
}

// Warnings handles GET /servers/:guild_id/members/:member_id/warnings.
func (h *ModerationHandler) Warnings(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	warnings, err := h.moderation.Warnings(c.UserContext(), c.Params("guild_id"), c.Params("member_id"), activityPageSize)
	if err != nil {
		return err
	}
	out := make([]dto.WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, dto.WarningResponse{
			ID:          w.ID,
			UserID:      w.UserID,
			ModeratorID: w.ModeratorID,
			Reason:      w.Reason,
			CreatedAt:   w.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// SyncRoles handles POST /servers/:guild_id/roles/sync.
func (h *ModerationHandler) SyncRoles(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	count, err := h.moderation.SyncRoles(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"synced": count}})
}

func (h *ModerationHandler) action(c *fiber.Ctx) (*auth.ModeratorContext, string, error) {
	mod, err := moderatorForGuild(c, h.resolver)
	if err != nil {
		return nil, "", err
	}
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "", apperrors.NewUserInputError("invalid payload", nil)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "No reason provided"
	}
	return mod, reason, nil
}
