package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/dto"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/service"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// SettingsHandler exposes the per-guild settings blob and the logging page.
type SettingsHandler struct {
	dashboard *service.DashboardService
	resolver  *auth.ContextResolver
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(dashboard *service.DashboardService, resolver *auth.ContextResolver) *SettingsHandler {
	return &SettingsHandler{dashboard: dashboard, resolver: resolver}
}

// Get handles GET /servers/:guild_id/settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	settings, err := h.dashboard.GetSettings(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// Save handles POST /servers/:guild_id/settings.
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	mod, err := moderatorForGuild(c, h.resolver)
	if err != nil {
		return err
	}
	var settings domain.Settings
	if err := c.BodyParser(&settings); err != nil {
		return apperrors.NewUserInputError("invalid payload", nil)
	}
	if err := h.dashboard.SaveSettings(c.UserContext(), mod, c.Params("guild_id"), settings); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// GetLogging handles GET /servers/:guild_id/logging.
func (h *SettingsHandler) GetLogging(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	cfg, err := h.dashboard.GetLogging(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cfg})
}

// SetLogging handles POST /servers/:guild_id/logging.
func (h *SettingsHandler) SetLogging(c *fiber.Ctx) error {
	mod, err := moderatorForGuild(c, h.resolver)
	if err != nil {
		return err
	}
	var req dto.LoggingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUserInputError("invalid payload", nil)
	}
	cfg := service.LoggingConfig{
		TicketLogChannelID:     req.TicketLogChannelID,
		SuggestionLogChannelID: req.SuggestionLogChannelID,
	}
	if err := h.dashboard.SetLogging(c.UserContext(), mod, c.Params("guild_id"), cfg); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cfg})
}
