package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/repository"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// LoggingConfig is the slice of guild settings the dashboard's logging page
// reads and writes.
type LoggingConfig struct {
	TicketLogChannelID     string `json:"ticket_log_channel_id"`
	SuggestionLogChannelID string `json:"suggestion_log_channel_id"`
}

// DashboardService backs the administrative HTTP API: server listings,
// rosters, the settings blob, logging configuration and activity feeds.
type DashboardService struct {
	client   platform.Client
	settings repository.SettingsRepository
	activity repository.ActivityRepository
	logger   *zap.Logger
}

// NewDashboardService creates the service.
func NewDashboardService(
	client platform.Client,
	settings repository.SettingsRepository,
	activity repository.ActivityRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		client:   client,
		settings: settings,
		activity: activity,
		logger:   logger,
	}
}

// VisibleServers lists the guilds the caller can administer: owned, or held
// with administrator / manage-guild capability.
func (s *DashboardService) VisibleServers(ctx context.Context, chatID string) ([]platform.Guild, error) {
	guilds, err := s.client.Guilds(ctx)
	if err != nil {
		return nil, apperrors.NewPlatformError("failed to list servers", err)
	}

	visible := make([]platform.Guild, 0, len(guilds))
	for _, guild := range guilds {
		if guild.OwnerID == chatID {
			visible = append(visible, guild)
			continue
		}
		member, err := s.client.Member(ctx, guild.ID, chatID)
		if err != nil {
			continue
		}
		if member.Permissions.Administrator || member.Permissions.ManageGuild {
			visible = append(visible, guild)
		}
	}
	return visible, nil
}

// Members returns the guild roster.
func (s *DashboardService) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	members, err := s.client.Members(ctx, guildID)
	if err != nil {
		return nil, guildLookupError(err)
	}
	return members, nil
}

// Channels returns the guild's channels.
func (s *DashboardService) Channels(ctx context.Context, guildID string) ([]platform.Channel, error) {
	channels, err := s.client.Channels(ctx, guildID)
	if err != nil {
		return nil, guildLookupError(err)
	}
	return channels, nil
}

// Roles returns the guild's roles.
func (s *DashboardService) Roles(ctx context.Context, guildID string) ([]platform.Role, error) {
	roles, err := s.client.Roles(ctx, guildID)
	if err != nil {
		return nil, guildLookupError(err)
	}
	return roles, nil
}

// GetSettings returns the guild's settings blob, seeding platform-derived
// defaults on first read so the dashboard never sees an empty page.
func (s *DashboardService) GetSettings(ctx context.Context, guildID string) (domain.Settings, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError("failed to load settings", err)
	}

	guild, gerr := s.client.Guild(ctx, guildID)
	if gerr != nil {
		return nil, guildLookupError(gerr)
	}
	seeded := domain.DefaultSettings()
	seeded.Set("server_name", guild.Name)
	seeded.Set("server_id", guild.ID)
	if uerr := s.settings.Upsert(ctx, guildID, seeded); uerr != nil {
		s.logger.Warn("settings seed write failed", zap.String("guild_id", guildID), zap.Error(uerr))
	}
	return seeded, nil
}

// SaveSettings replaces the guild's settings blob. Requires manage-guild or
// administrator capability.
func (s *DashboardService) SaveSettings(ctx context.Context, mod *auth.ModeratorContext, guildID string, settings domain.Settings) error {
	if !canManageGuild(mod) {
		return apperrors.NewPermissionDenied("changing settings requires server management capability")
	}
	if len(settings) == 0 {
		return apperrors.NewUserInputError("settings payload must not be empty", nil)
	}
	if err := s.settings.Upsert(ctx, guildID, settings); err != nil {
		return apperrors.NewPersistenceError("failed to store settings", err)
	}
	return nil
}

// GetLogging returns the guild's log-channel configuration.
func (s *DashboardService) GetLogging(ctx context.Context, guildID string) (LoggingConfig, error) {
	settings, err := s.GetSettings(ctx, guildID)
	if err != nil {
		return LoggingConfig{}, err
	}
	return LoggingConfig{
		TicketLogChannelID:     settings.TicketLogChannelID(),
		SuggestionLogChannelID: settings.SuggestionLogChannelID(),
	}, nil
}

// SetLogging validates the submitted channel ids against the guild and
// merges them into the settings blob. Empty ids clear the configuration.
func (s *DashboardService) SetLogging(ctx context.Context, mod *auth.ModeratorContext, guildID string, cfg LoggingConfig) error {
	if !canManageGuild(mod) {
		return apperrors.NewPermissionDenied("changing logging requires server management capability")
	}

	channels, err := s.client.Channels(ctx, guildID)
	if err != nil {
		return guildLookupError(err)
	}
	known := make(map[string]bool, len(channels))
	for _, ch := range channels {
		known[ch.ID] = true
	}
	if cfg.TicketLogChannelID != "" && !known[cfg.TicketLogChannelID] {
		return apperrors.NewUserInputError("ticket log channel does not exist in this server", nil)
	}
	if cfg.SuggestionLogChannelID != "" && !known[cfg.SuggestionLogChannelID] {
		return apperrors.NewUserInputError("suggestion log channel does not exist in this server", nil)
	}

	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewPersistenceError("failed to load settings", err)
		}
		settings = domain.DefaultSettings()
	}
	settings.Set("ticket_log_channel_id", cfg.TicketLogChannelID)
	settings.Set("suggestion_log_channel_id", cfg.SuggestionLogChannelID)

	if err := s.settings.Upsert(ctx, guildID, settings); err != nil {
		return apperrors.NewPersistenceError("failed to store settings", err)
	}
	return nil
}

// MemberActivity returns the member's most recent tracked activity.
func (s *DashboardService) MemberActivity(ctx context.Context, guildID, memberID string, limit int) ([]domain.ActivityEntry, error) {
	if _, err := s.client.Member(ctx, guildID, memberID); err != nil {
		return nil, memberLookupError(err)
	}
	entries, err := s.activity.ListByUser(ctx, memberID, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to load activity", err)
	}
	return entries, nil
}

// ChannelMembers returns who can see the given channel.
func (s *DashboardService) ChannelMembers(ctx context.Context, guildID, channelID string) ([]platform.Member, error) {
	members, err := s.client.ChannelMembers(ctx, guildID, channelID)
	if err != nil {
		return nil, channelLookupError(err)
	}
	return members, nil
}

// ChannelActivity returns the channel's most recent messages.
func (s *DashboardService) ChannelActivity(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	if limit <= 0 {
		limit = 25
	}
	messages, err := s.client.ChannelHistory(ctx, channelID, limit)
	if err != nil {
		return nil, channelLookupError(err)
	}
	return messages, nil
}

func canManageGuild(mod *auth.ModeratorContext) bool {
	perms := mod.Permissions()
	return perms.ManageGuild || perms.Administrator
}

func guildLookupError(err error) error {
	if errors.Is(err, platform.ErrNotFound) {
		return apperrors.NewNotFound("server", nil)
	}
	return apperrors.NewPlatformError("server lookup failed", err)
}

func channelLookupError(err error) error {
	if errors.Is(err, platform.ErrNotFound) {
		return apperrors.NewNotFound("channel", nil)
	}
	return apperrors.NewPlatformError("channel lookup failed", err)
}
