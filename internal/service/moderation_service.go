package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/auth"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/repository"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// ModerationService executes dashboard-initiated moderation actions:
// warn, ban, kick, and role snapshot sync.
type ModerationService struct {
	client     platform.Client
	moderation repository.ModerationRepository
	roles      repository.RolesRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewModerationService creates the service.
func NewModerationService(
	client platform.Client,
	moderation repository.ModerationRepository,
	roles repository.RolesRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		client:     client,
		moderation: moderation,
		roles:      roles,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Warn records a warning row and notifies the member by direct message.
// The DM is best-effort; the row is the source of truth.
func (s *ModerationService) Warn(ctx context.Context, mod *auth.ModeratorContext, guildID, userID, reason string) (*domain.Warning, error) {
	perms := mod.Permissions()
	if !perms.ManageMessages && !perms.Administrator {
		return nil, apperrors.NewPermissionDenied("warning members requires message management capability")
	}
	member, err := s.client.Member(ctx, guildID, userID)
	if err != nil {
		return nil, memberLookupError(err)
	}

	warning := &domain.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: mod.ChatID,
		Reason:      reason,
	}
	if err := s.moderation.CreateWarning(ctx, warning); err != nil {
		return nil, apperrors.NewPersistenceError("failed to record warning", err)
	}

	guild, gerr := s.client.Guild(ctx, guildID)
	serverName := guildID
	if gerr == nil {
		serverName = guild.Name
	}
	if err := s.client.SendDirect(ctx, userID,
		fmt.Sprintf("⚠️ You have received a warning in **%s**: %s", serverName, reason)); err != nil {
		s.logger.Warn("warning DM failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.publish(ctx, events.EventMemberWarned, guildID, mod.ChatID, member.ID, reason)
	return warning, nil
}

// Ban bans the member on the platform and records a ban row.
func (s *ModerationService) Ban(ctx context.Context, mod *auth.ModeratorContext, guildID, userID, reason string) (*domain.Ban, error) {
	perms := mod.Permissions()
	if !perms.BanMembers && !perms.Administrator {
		return nil, apperrors.NewPermissionDenied("banning members requires ban capability")
	}
	if _, err := s.client.Member(ctx, guildID, userID); err != nil {
		return nil, memberLookupError(err)
	}

	if err := s.client.BanMember(ctx, guildID, userID, reason); err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return nil, apperrors.NewPermissionDenied("the bot lacks permission to ban this member")
		}
		return nil, apperrors.NewPlatformError("ban failed", err)
	}

	moderatorID := mod.ChatID
	ban := &domain.Ban{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: &moderatorID,
		Reason:      reason,
	}
	if err := s.moderation.CreateBan(ctx, ban); err != nil {
		// The platform ban already happened; losing the row is log-worthy
		// but not a reason to report failure to the moderator.
		s.logger.Warn("ban record insert failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.publish(ctx, events.EventMemberBanned, guildID, mod.ChatID, userID, reason)
	return ban, nil
}

// Kick removes the member from the guild without a persistent record
// beyond the event stream.
func (s *ModerationService) Kick(ctx context.Context, mod *auth.ModeratorContext, guildID, userID, reason string) error {
	perms := mod.Permissions()
	if !perms.KickMembers && !perms.Administrator {
		return apperrors.NewPermissionDenied("kicking members requires kick capability")
	}
	if _, err := s.client.Member(ctx, guildID, userID); err != nil {
		return memberLookupError(err)
	}

	if err := s.client.KickMember(ctx, guildID, userID, reason); err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return apperrors.NewPermissionDenied("the bot lacks permission to kick this member")
		}
		return apperrors.NewPlatformError("kick failed", err)
	}

	s.publish(ctx, events.EventMemberKicked, guildID, mod.ChatID, userID, reason)
	return nil
}

// Warnings lists a member's recorded warnings, newest first.
func (s *ModerationService) Warnings(ctx context.Context, guildID, userID string, limit int) ([]domain.Warning, error) {
	warnings, err := s.moderation.ListWarnings(ctx, guildID, userID, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list warnings", err)
	}
	return warnings, nil
}

// SyncRoles snapshots the guild's current roles into storage and returns
// how many were written.
func (s *ModerationService) SyncRoles(ctx context.Context, guildID string) (int, error) {
	roles, err := s.client.Roles(ctx, guildID)
	if err != nil {
		return 0, apperrors.NewPlatformError("failed to fetch roles", err)
	}
	snapshots := make([]domain.RoleSnapshot, 0, len(roles))
	for _, role := range roles {
		snapshots = append(snapshots, domain.RoleSnapshot{
			GuildID:     guildID,
			RoleID:      role.ID,
			Name:        role.Name,
			Color:       role.Color,
			Position:    role.Position,
			Permissions: role.Permissions,
			Mentionable: role.Mentionable,
			Managed:     role.Managed,
		})
	}
	if err := s.roles.UpsertBatch(ctx, snapshots); err != nil {
		return 0, apperrors.NewPersistenceError("failed to store role snapshot", err)
	}
	return len(snapshots), nil
}

func memberLookupError(err error) error {
	if errors.Is(err, platform.ErrNotFound) {
		return apperrors.NewNotFound("member", nil)
	}
	return apperrors.NewPlatformError("member lookup failed", err)
}

func (s *ModerationService) publish(ctx context.Context, typ events.EventType, guildID, actorID, userID, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		GuildID:   guildID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   events.ModerationPayload{UserID: userID, Reason: reason},
	})
}
