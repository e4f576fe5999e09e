package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/moderation-service/internal/api/ws"
	"github.com/spec-kit/moderation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Servers        *handlers.ServersHandler
	Settings       *handlers.SettingsHandler
	Moderation     *handlers.ModerationHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
	PresenceHub    *ws.Hub
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Head("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.PresenceHub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/status", websocket.New(cfg.PresenceHub.Handler()))
	}

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)

	protected.Get("/reports", cfg.Reports.List)
	protected.Get("/reports/:report_id", cfg.Reports.Get)

	servers := protected.Group("/servers")
	servers.Get("", cfg.Servers.List)
	servers.Get("/:guild_id/members", cfg.Servers.Members)
	servers.Get("/:guild_id/channels", cfg.Servers.Channels)
	servers.Get("/:guild_id/roles", cfg.Servers.Roles)
	servers.Post("/:guild_id/roles/sync", cfg.Moderation.SyncRoles)

	servers.Get("/:guild_id/settings", cfg.Settings.Get)
	servers.Post("/:guild_id/settings", cfg.Settings.Save)
	servers.Get("/:guild_id/logging", cfg.Settings.GetLogging)
	servers.Post("/:guild_id/logging", cfg.Settings.SetLogging)

	servers.Get("/:guild_id/members/:member_id/activity", cfg.Servers.MemberActivity)
	servers.Get("/:guild_id/members/:member_id/warnings", cfg.Moderation.Warnings)
	servers.Post("/:guild_id/members/:member_id/warn", cfg.Moderation.Warn)
	servers.Post("/:guild_id/members/:member_id/ban", cfg.Moderation.Ban)
	servers.Post("/:guild_id/members/:member_id/kick", cfg.Moderation.Kick)

	servers.Get("/:guild_id/channels/:channel_id/members", cfg.Servers.ChannelMembers)
	servers.Get("/:guild_id/channels/:channel_id/activity", cfg.Servers.ChannelActivity)
}
