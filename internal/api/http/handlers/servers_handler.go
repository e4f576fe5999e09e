package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/dto"
	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/service"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

const activityPageSize = 25

// ServersHandler exposes guild listings, rosters and activity feeds.
type ServersHandler struct {
	dashboard *service.DashboardService
	resolver  *auth.ContextResolver
}

// NewServersHandler constructs handler.
func NewServersHandler(dashboard *service.DashboardService, resolver *auth.ContextResolver) *ServersHandler {
	return &ServersHandler{dashboard: dashboard, resolver: resolver}
}

// List handles GET /servers.
func (h *ServersHandler) List(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authenticated identity")
	}
	chatID := h.resolver.ChatID(c.UserContext(), user)
	if chatID == "" {
		return apperrors.NewPermissionDenied("no linked chat account found")
	}

	guilds, err := h.dashboard.VisibleServers(c.UserContext(), chatID)
	if err != nil {
		return err
	}
	out := make([]dto.ServerResponse, 0, len(guilds))
	for _, g := range guilds {
		out = append(out, dto.ServerResponse{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID, IconURL: g.IconURL})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Members handles GET /servers/:guild_id/members.
func (h *ServersHandler) Members(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	members, err := h.dashboard.Members(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponses(members)})
}

// Channels handles GET /servers/:guild_id/channels.
func (h *ServersHandler) Channels(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	channels, err := h.dashboard.Channels(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	out := make([]dto.ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		out = append(out, dto.ChannelResponse{ID: ch.ID, Name: ch.Name, Type: string(ch.Type)})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Roles handles GET /servers/:guild_id/roles.
func (h *ServersHandler) Roles(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	roles, err := h.dashboard.Roles(c.UserContext(), c.Params("guild_id"))
	if err != nil {
		return err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleResponse{
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Position:    r.Position,
			Permissions: r.Permissions,
			Mentionable: r.Mentionable,
			Managed:     r.Managed,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// MemberActivity handles GET /servers/:guild_id/members/:member_id/activity.
func (h *ServersHandler) MemberActivity(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	entries, err := h.dashboard.MemberActivity(c.UserContext(), c.Params("guild_id"), c.Params("member_id"), activityPageSize)
	if err != nil {
		return err
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Content:   e.Content,
			ChannelID: e.ChannelID,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// ChannelMembers handles GET /servers/:guild_id/channels/:channel_id/members.
func (h *ServersHandler) ChannelMembers(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	members, err := h.dashboard.ChannelMembers(c.UserContext(), c.Params("guild_id"), c.Params("channel_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponses(members)})
}

// ChannelActivity handles GET /servers/:guild_id/channels/:channel_id/activity.
func (h *ServersHandler) ChannelActivity(c *fiber.Ctx) error {
	if _, err := moderatorForGuild(c, h.resolver); err != nil {
		return err
	}
	messages, err := h.dashboard.ChannelActivity(c.UserContext(), c.Params("channel_id"), activityPageSize)
	if err != nil {
		return err
	}
	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.MessageResponse{
			ID:         m.ID,
			AuthorID:   m.AuthorID,
			AuthorName: m.AuthorName,
			Content:    m.Content,
			CreatedAt:  m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

func memberResponses(members []platform.Member) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.MemberResponse{
			ID:          m.ID,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Status:      m.Status,
			AvatarURL:   m.AvatarURL,
			IsBot:       m.IsBot,
		})
	}
	return out
}
