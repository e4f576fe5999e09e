package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

// AdminService backs the admin control panel: the server lockdown toggle and
// channel broadcasts. Lockdown state lives on the platform itself (the
// everyone role's send permission), so the panel never needs local storage.
type AdminService struct {
	client       platform.Client
	logger       *zap.Logger
	dashboardURL string
}

// NewAdminService creates the service.
func NewAdminService(client platform.Client, logger *zap.Logger, dashboardURL string) *AdminService {
	return &AdminService{client: client, logger: logger, dashboardURL: dashboardURL}
}

// PostPanel places the control-panel card into the admin channel, with the
// lockdown button reflecting the guild's current state.
func (s *AdminService) PostPanel(ctx context.Context, guildID, channelID string) error {
	canSend, err := s.client.DefaultRoleCanSend(ctx, guildID)
	if err != nil {
		s.logger.Warn("lockdown state read failed, assuming unlocked",
			zap.String("guild_id", guildID), zap.Error(err))
		canSend = true
	}
	_, err = s.client.SendCard(ctx, channelID, workflow.AdminPanelCard(), workflow.AdminControls(!canSend, s.dashboardURL))
	return err
}

// HandleLockdown toggles the everyone role's ability to send messages and
// flips the panel button to match the new state.
func (s *AdminService) HandleLockdown(ctx context.Context, itx platform.Interaction) error {
	member, err := s.client.Member(ctx, itx.GuildID(), itx.Actor().ID)
	if err != nil {
		return itx.RespondEphemeral(ctx, "Could not verify your permissions.")
	}
	if !workflow.CanLockdown(*member) {
		return itx.RespondEphemeral(ctx, "You don't have permission to use this.")
	}

	if err := itx.Defer(ctx); err != nil {
		return err
	}

	canSend, err := s.client.DefaultRoleCanSend(ctx, itx.GuildID())
	if err != nil {
		s.logger.Error("lockdown state read failed", zap.String("guild_id", itx.GuildID()), zap.Error(err))
		return itx.Followup(ctx, "Could not read the server's current lockdown state.")
	}

	locking := canSend
	if err := s.client.SetDefaultRoleCanSend(ctx, itx.GuildID(), !locking); err != nil {
		s.logger.Error("lockdown toggle failed", zap.String("guild_id", itx.GuildID()), zap.Error(err))
		return itx.Followup(ctx, "Could not update the server's permissions.")
	}

	if err := itx.EditSource(ctx, workflow.AdminPanelCard(), workflow.AdminControls(locking, s.dashboardURL)); err != nil {
		s.logger.Warn("admin panel refresh failed", zap.String("guild_id", itx.GuildID()), zap.Error(err))
	}

	if locking {
		return itx.Followup(ctx, "🚨 Server has been **locked down**.")
	}
	return itx.Followup(ctx, "✅ Server is no longer in lockdown.")
}

// HandleBroadcastStart opens the broadcast modal for authorized members.
func (s *AdminService) HandleBroadcastStart(ctx context.Context, itx platform.Interaction) error {
	member, err := s.client.Member(ctx, itx.GuildID(), itx.Actor().ID)
	if err != nil {
		return itx.RespondEphemeral(ctx, "Could not verify your permissions.")
	}
	if !workflow.CanBroadcast(*member) {
		return itx.RespondEphemeral(ctx, "You don't have permission to use this.")
	}
	return itx.OpenForm(ctx, workflow.BroadcastForm())
}

// HandleBroadcastSubmit relays the submitted message into the named channel.
func (s *AdminService) HandleBroadcastSubmit(ctx context.Context, itx platform.Interaction) error {
	name := strings.TrimSpace(itx.FormValue(workflow.FieldBroadcastChannel))
	content := itx.FormValue(workflow.FieldBroadcastMessage)

	channel, err := s.client.ChannelByName(ctx, itx.GuildID(), name)
	if err != nil {
		return itx.RespondEphemeral(ctx, fmt.Sprintf("Could not find a channel named `%s`.", name))
	}
	if _, err := s.client.SendMessage(ctx, channel.ID, content); err != nil {
		s.logger.Error("broadcast send failed",
			zap.String("guild_id", itx.GuildID()), zap.String("channel_id", channel.ID), zap.Error(err))
		return itx.RespondEphemeral(ctx, "Sorry, the message could not be sent.")
	}
	return itx.RespondEphemeral(ctx, fmt.Sprintf("Message sent to #%s.", channel.Name))
}
