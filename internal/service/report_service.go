package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/repository"
	"github.com/spec-kit/moderation-service/internal/workflow"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// ReportService runs the report-filing flow: category selection, rules
// gate, modal submission, persistence and admin escalation. Persistence is
// the commit point; escalation only ever happens for a stored report.
type ReportService struct {
	client           platform.Client
	reports          repository.ReportRepository
	dispatcher       events.Dispatcher
	logger           *zap.Logger
	adminChannelName string
}

// NewReportService creates the service.
func NewReportService(
	client platform.Client,
	reports repository.ReportRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	adminChannelName string,
) *ReportService {
	return &ReportService{
		client:           client,
		reports:          reports,
		dispatcher:       dispatcher,
		logger:           logger,
		adminChannelName: adminChannelName,
	}
}

// HandleStart services the "File a Report" press with the category menu.
func (s *ReportService) HandleStart(ctx context.Context, itx platform.Interaction) error {
	_, effects := workflow.NewReportFlow().Next(workflow.ReportStarted{})
	return s.execute(ctx, itx, effects)
}

// HandleCategoryChosen advances past the category menu. The selector is
// made inert first so a second pick cannot fork the flow.
func (s *ReportService) HandleCategoryChosen(ctx context.Context, itx platform.Interaction) error {
	if err := itx.DisableSourceControls(ctx); err != nil {
		s.logger.Warn("category selector disable failed", zap.Error(err))
	}
	flow := workflow.ReportFlow{Step: workflow.ReportCategorySelect}
	_, effects := flow.Next(workflow.ReportCategoryChosen{Category: itx.SelectedValue()})
	return s.execute(ctx, itx, effects)
}

// HandleRulesAccepted opens the report form for the carried category.
func (s *ReportService) HandleRulesAccepted(ctx context.Context, itx platform.Interaction, flow workflow.ReportFlow) error {
	_, effects := flow.Next(workflow.ReportRulesAccepted{})
	return s.execute(ctx, itx, effects)
}

// HandleRulesDeclined cancels the flow.
func (s *ReportService) HandleRulesDeclined(ctx context.Context, itx platform.Interaction, flow workflow.ReportFlow) error {
	_, effects := flow.Next(workflow.ReportRulesDeclined{})
	return s.execute(ctx, itx, effects)
}

// HandleSubmission services the modal submit: validate, persist, thank the
// reporter, then escalate. A store failure aborts before any user-visible
// success and never escalates.
func (s *ReportService) HandleSubmission(ctx context.Context, itx platform.Interaction, category domain.ReportCategory) error {
	reported := itx.FormValue(workflow.FieldReportedUser)
	reason := itx.FormValue(workflow.FieldReportReason)
	if err := workflow.ValidateSubmission(reported, reason); err != nil {
		return itx.RespondEphemeral(ctx, "Both a username and a reason are required.")
	}

	actor := itx.Actor()
	report := &domain.Report{
		ReporterID:   actor.ID,
		ReporterName: actor.Username,
		ReportedUser: reported,
		Reason:       reason,
		Category:     category,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error("report persistence failed",
			zap.String("reporter_id", actor.ID), zap.Error(err))
		return itx.RespondEphemeral(ctx, "Sorry, there was an error processing your report.")
	}

	_ = itx.RespondEphemeral(ctx, fmt.Sprintf("Thank you, your report against **%s** has been filed.", reported))
	s.publishReport(ctx, events.EventReportFiled, itx.GuildID(), actor.ID, report, false)
	s.escalate(ctx, itx.GuildID(), actor.ID, report)
	return nil
}

// Recent lists the most recently filed reports for the dashboard.
func (s *ReportService) Recent(ctx context.Context, limit int) ([]domain.Report, error) {
	reports, err := s.reports.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("could not list reports", err)
	}
	return reports, nil
}

// Get fetches a single report by id.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": id})
		}
		return nil, apperrors.NewPersistenceError("could not load report", err)
	}
	return report, nil
}

// escalate posts the review card to the admin channel. Best-effort: the
// report is already stored, so failures here only land in the log.
func (s *ReportService) escalate(ctx context.Context, guildID, actorID string, report *domain.Report) {
	channel, err := s.client.ChannelByName(ctx, guildID, s.adminChannelName)
	if err != nil {
		s.logger.Warn("admin channel not found, report not escalated",
			zap.String("guild_id", guildID), zap.String("channel", s.adminChannelName), zap.Error(err))
		return
	}

	members, err := s.client.Members(ctx, guildID)
	if err != nil {
		s.logger.Warn("member roster fetch failed", zap.String("guild_id", guildID), zap.Error(err))
		members = nil
	}
	match := workflow.ResolveReportedMember(report.ReportedUser, members)

	card, controls := workflow.BuildReviewCard(*report, match)
	if _, err := s.client.SendCard(ctx, channel.ID, card, controls); err != nil {
		s.logger.Warn("report escalation post failed", zap.String("channel_id", channel.ID), zap.Error(err))
		return
	}
	s.publishReport(ctx, events.EventReportEscalated, guildID, actorID, report, match != nil)
}

func (s *ReportService) execute(ctx context.Context, itx platform.Interaction, effects []workflow.Effect) error {
	for _, effect := range effects {
		switch e := effect.(type) {
		case workflow.EffectReject:
			return itx.RespondEphemeral(ctx, e.Content)
		case workflow.EffectAck:
			return itx.RespondEphemeral(ctx, e.Content)
		case workflow.EffectShowCategorySelect:
			return itx.RespondEphemeralWithControls(ctx, e.Content, []platform.Control{
				{ID: e.SelectID, Label: "Report category", Options: e.Options},
			})
		case workflow.EffectShowRules:
			return itx.RespondEphemeralWithControls(ctx, e.Content, []platform.Control{
				{ID: e.AcceptID, Label: "I Understand", Style: platform.StyleSuccess},
				{ID: e.CancelID, Label: "Cancel", Style: platform.StyleSecondary},
			})
		case workflow.EffectOpenReportForm:
			return itx.OpenForm(ctx, workflow.ReportForm(e.Category))
		}
	}
	return nil
}

func (s *ReportService) publishReport(ctx context.Context, typ events.EventType, guildID, actorID string, report *domain.Report, escalated bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		GuildID:   guildID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload: events.ReportPayload{
			ReportID:     report.ID,
			Category:     report.Category,
			ReportedUser: report.ReportedUser,
			Escalated:    escalated,
		},
	})
}
