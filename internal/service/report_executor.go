package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/repository"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

// ReportExecutor handles the two controls on an escalated review card:
// Mark Resolved and Ban User. Both converge on the same terminal card
// mutation; a handled card ignores further presses.
type ReportExecutor struct {
	client     platform.Client
	reports    repository.ReportRepository
	moderation repository.ModerationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReportExecutor creates the executor.
func NewReportExecutor(
	client platform.Client,
	reports repository.ReportRepository,
	moderation repository.ModerationRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ReportExecutor {
	return &ReportExecutor{
		client:     client,
		reports:    reports,
		moderation: moderation,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleResolve marks the report resolved with no platform action.
func (s *ReportExecutor) HandleResolve(ctx context.Context, itx platform.Interaction, reportID string) error {
	card, ok := itx.SourceCard()
	if !ok {
		return itx.RespondEphemeral(ctx, "This control is not attached to a report.")
	}
	if workflow.CardHandled(card) {
		return itx.RespondEphemeral(ctx, "This report has already been handled.")
	}
	return s.finish(ctx, itx, card, reportID, "Resolved", domain.ResolutionResolved)
}

// HandleBan bans the member named in the card footer, then marks the
// report handled. Extraction or lookup failures leave the card live so
// the action can be retried or taken manually.
func (s *ReportExecutor) HandleBan(ctx context.Context, itx platform.Interaction, reportID string) error {
	card, ok := itx.SourceCard()
	if !ok {
		return itx.RespondEphemeral(ctx, "This control is not attached to a report.")
	}
	if workflow.CardHandled(card) {
		return itx.RespondEphemeral(ctx, "This report has already been handled.")
	}

	userID, err := workflow.ExtractReportedID(card.Footer)
	if err != nil {
		return itx.RespondEphemeral(ctx, "Error: Could not extract a valid User ID from the report.")
	}
	if _, err := s.client.Member(ctx, itx.GuildID(), userID); err != nil {
		return itx.RespondEphemeral(ctx, "Could not find this user in the server.")
	}

	if err := s.client.BanMember(ctx, itx.GuildID(), userID, workflow.BanAuditReason); err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return itx.RespondEphemeral(ctx, "Error: I don't have permission to ban this user.")
		}
		s.logger.Error("report ban failed",
			zap.String("guild_id", itx.GuildID()), zap.String("user_id", userID), zap.Error(err))
		return itx.RespondEphemeral(ctx, "An unexpected error occurred while banning this user.")
	}

	moderatorID := itx.Actor().ID
	ban := &domain.Ban{
		GuildID:     itx.GuildID(),
		UserID:      userID,
		ModeratorID: &moderatorID,
		Reason:      workflow.BanAuditReason,
	}
	if err := s.moderation.CreateBan(ctx, ban); err != nil {
		s.logger.Warn("ban record insert failed", zap.String("user_id", userID), zap.Error(err))
	}
	s.publishModeration(ctx, events.EventMemberBanned, itx.GuildID(), moderatorID, userID, workflow.BanAuditReason)

	return s.finish(ctx, itx, card, reportID, "Banned", domain.ResolutionBanned)
}

// finish applies the shared terminal mutation: recolor and retitle the
// card, stamp the handler, disable the controls, confirm ephemerally, and
// stamp the report row.
func (s *ReportExecutor) finish(ctx context.Context, itx platform.Interaction, card platform.Card, reportID, action string, resolution domain.ReportResolution) error {
	actor := itx.Actor()
	handled := workflow.HandledCard(card, action, "<@"+actor.ID+">")
	if err := itx.EditSource(ctx, handled, platform.DisableAll(workflow.ReviewControls(reportID))); err != nil {
		s.logger.Warn("review card edit failed", zap.String("report_id", reportID), zap.Error(err))
	}
	_ = itx.RespondEphemeral(ctx, fmt.Sprintf("Report has been marked as '%s'.", action))

	if reportID != "" {
		if err := s.reports.MarkHandled(ctx, reportID, actor.ID, resolution); err != nil {
			s.logger.Warn("report handled stamp failed", zap.String("report_id", reportID), zap.Error(err))
		}
	}
	s.publishHandled(ctx, itx.GuildID(), actor.ID, reportID, resolution)
	return nil
}

func (s *ReportExecutor) publishHandled(ctx context.Context, guildID, actorID, reportID string, resolution domain.ReportResolution) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportHandled,
		GuildID:   guildID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload: events.ReportPayload{
			ReportID:   reportID,
			Resolution: resolution,
		},
	})
}

func (s *ReportExecutor) publishModeration(ctx context.Context, typ events.EventType, guildID, actorID, userID, reason string) {
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
