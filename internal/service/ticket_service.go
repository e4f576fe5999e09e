package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/cooldown"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/logsink"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/timer"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

const expireTimeout = 30 * time.Second

// TicketService runs the support-ticket lifecycle: open request, rules
// gate, private thread creation, inactivity auto-archive, close and
// admin cancel. Transitions come from the pure workflow machine; this
// service only executes their effects against the platform.
type TicketService struct {
	client     platform.Client
	cooldowns  cooldown.Tracker
	timers     *timer.Registry
	sink       *logsink.Sink
	dispatcher events.Dispatcher
	logger     *zap.Logger

	cooldownWindow time.Duration
	inactivity     time.Duration
}

// NewTicketService creates the service.
func NewTicketService(
	client platform.Client,
	cooldowns cooldown.Tracker,
	timers *timer.Registry,
	sink *logsink.Sink,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	cooldownWindow, inactivity time.Duration,
) *TicketService {
	return &TicketService{
		client:         client,
		cooldowns:      cooldowns,
		timers:         timers,
		sink:           sink,
		dispatcher:     dispatcher,
		logger:         logger,
		cooldownWindow: cooldownWindow,
		inactivity:     inactivity,
	}
}

// HandleOpen services the "Open a Ticket" press: cooldown check, duplicate
// check, then the rules prompt. Nothing is created or recorded yet.
func (s *TicketService) HandleOpen(ctx context.Context, itx platform.Interaction) error {
	actor := itx.Actor()
	flow := workflow.NewTicketFlow(actor.ID, actor.Username)

	remaining, err := s.cooldowns.Check(ctx, actor.ID, time.Now())
	if err != nil {
		// A degraded cooldown store must not lock users out of support.
		s.logger.Warn("cooldown check failed, allowing", zap.String("user_id", actor.ID), zap.Error(err))
		remaining = 0
	}

	threads, err := s.client.ActiveThreads(ctx, itx.GuildID(), itx.ChannelID())
	if err != nil {
		s.logger.Warn("active thread scan failed", zap.String("channel_id", itx.ChannelID()), zap.Error(err))
		threads = nil
	}

	_, effects := flow.Next(workflow.TicketOpenRequested{
		CooldownRemaining: remaining,
		OpenThreads:       threads,
		BotID:             s.client.BotUserID(),
		CooldownWindow:    s.cooldownWindow,
	})
	return s.execute(ctx, itx, effects)
}

// HandleRulesAccepted services the "I Understand" press: the cooldown is
// stamped and the private thread created.
func (s *TicketService) HandleRulesAccepted(ctx context.Context, itx platform.Interaction, flow workflow.TicketFlow) error {
	_, effects := flow.Next(workflow.TicketRulesAccepted{})
	return s.execute(ctx, itx, effects)
}

// HandleRulesDeclined cancels the attempt. The cooldown stays untouched.
func (s *TicketService) HandleRulesDeclined(ctx context.Context, itx platform.Interaction, flow workflow.TicketFlow) error {
	_, effects := flow.Next(workflow.TicketRulesDeclined{})
	return s.execute(ctx, itx, effects)
}

// HandleClose archives and locks the ticket thread. Allowed to the opener
// and anyone with thread/channel management or administrator capability.
func (s *TicketService) HandleClose(ctx context.Context, itx platform.Interaction, openerID string) error {
	thread, ok := itx.Thread(ctx)
	if !ok {
		return itx.RespondEphemeral(ctx, "This control can only be used inside a ticket thread.")
	}
	actor := itx.Actor()
	if !workflow.CanCloseTicket(actor.ID, openerID, actor.Permissions) {
		return itx.RespondEphemeral(ctx, "You don't have permission to close this ticket.")
	}

	if err := s.client.ArchiveThread(ctx, thread.ID, true); err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return itx.RespondEphemeral(ctx, "I don't have permission to manage this thread.")
		}
		s.logger.Error("ticket close failed", zap.String("thread_id", thread.ID), zap.Error(err))
		return itx.RespondEphemeral(ctx, "Failed to close this ticket.")
	}

	s.timers.Cancel(thread.ID)
	_ = itx.RespondEphemeral(ctx, "✅ Ticket closed.")
	_ = s.sink.Post(ctx, itx.GuildID(), fmt.Sprintf("Ticket `%s` closed by <@%s>", thread.Name, actor.ID))
	s.publishTicket(ctx, events.EventTicketClosed, itx.GuildID(), actor.ID, thread.ID, thread.Name, openerID)
	return nil
}

// HandleCancelAdmin deletes the ticket thread outright. Deletion destroys
// the interaction's own channel, so the response is deferred first and the
// outcome reported as a followup.
func (s *TicketService) HandleCancelAdmin(ctx context.Context, itx platform.Interaction) error {
	thread, ok := itx.Thread(ctx)
	if !ok {
		return itx.RespondEphemeral(ctx, "This control can only be used inside a ticket thread.")
	}
	actor := itx.Actor()
	if !workflow.CanCancelTicket(actor.Permissions) {
		return itx.RespondEphemeral(ctx, "You don't have permission to cancel this ticket.")
	}

	if err := itx.Defer(ctx); err != nil {
		s.logger.Warn("cancel defer failed", zap.String("thread_id", thread.ID), zap.Error(err))
	}
	// Log before deleting: after deletion there is no thread to name.
	_ = s.sink.Post(ctx, itx.GuildID(), fmt.Sprintf("🗑️ Ticket `%s` cancelled by <@%s>", thread.Name, actor.ID))

	if err := s.client.DeleteThread(ctx, thread.ID); err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return itx.Followup(ctx, "I don't have permission to manage this thread.")
		}
		s.logger.Error("ticket cancel failed", zap.String("thread_id", thread.ID), zap.Error(err))
		return itx.Followup(ctx, "Failed to delete this ticket.")
	}

	s.timers.Cancel(thread.ID)
	_ = itx.Followup(ctx, "🗑️ Ticket thread deleted.")
	s.publishTicket(ctx, events.EventTicketCancelled, itx.GuildID(), actor.ID, thread.ID, thread.Name, "")
	return nil
}

// ResetTimer re-arms the inactivity timer for a live ticket thread. Called
// by the gateway on every message inside a bot-owned, non-archived thread.
func (s *TicketService) ResetTimer(guildID string, thread platform.Thread) {
	if thread.OwnerID != s.client.BotUserID() || thread.Archived {
		return
	}
	s.armTimer(guildID, thread.ID, thread.Name)
}

func (s *TicketService) armTimer(guildID, threadID, threadName string) {
	s.timers.Schedule(threadID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
		defer cancel()
		s.expire(ctx, guildID, threadID, threadName)
	})
}

// expire auto-archives an idle ticket. Everything here is best-effort: the
// user gets no error surface, failures only land in the log.
func (s *TicketService) expire(ctx context.Context, guildID, threadID, threadName string) {
	if th, err := s.client.Thread(ctx, threadID); err == nil && th.Archived {
		return
	}
	if err := s.client.ArchiveThread(ctx, threadID, true); err != nil {
		s.logger.Warn("ticket auto-archive failed", zap.String("thread_id", threadID), zap.Error(err))
		return
	}
	_ = s.sink.Post(ctx, guildID, fmt.Sprintf(
		"⏲️ Ticket `%s` auto-closed after %d minutes of inactivity.", threadName, int(s.inactivity.Minutes())))
	s.publishTicket(ctx, events.EventTicketExpired, guildID, "", threadID, threadName, "")
}

// execute runs workflow effects against the platform, in order.
func (s *TicketService) execute(ctx context.Context, itx platform.Interaction, effects []workflow.Effect) error {
	for _, effect := range effects {
		switch e := effect.(type) {
		case workflow.EffectReject:
			return itx.RespondEphemeral(ctx, e.Content)
		case workflow.EffectAck:
			return itx.RespondEphemeral(ctx, e.Content)
		case workflow.EffectShowRules:
			return itx.RespondEphemeralWithControls(ctx, e.Content, []platform.Control{
				{ID: e.AcceptID, Label: "I Understand", Style: platform.StyleSuccess},
				{ID: e.CancelID, Label: "Cancel", Style: platform.StyleSecondary},
			})
		case workflow.EffectMarkCooldown:
			if err := s.cooldowns.Mark(ctx, e.UserID, time.Now()); err != nil {
				s.logger.Warn("cooldown mark failed", zap.String("user_id", e.UserID), zap.Error(err))
			}
		case workflow.EffectOpenTicket:
			if err := s.openTicket(ctx, itx, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *TicketService) openTicket(ctx context.Context, itx platform.Interaction, e workflow.EffectOpenTicket) error {
	thread, err := s.client.CreatePrivateThread(ctx, itx.ChannelID(), e.ThreadName)
	if err != nil {
		if errors.Is(err, platform.ErrForbidden) {
			return itx.RespondEphemeral(ctx, "I don't have permission to create a ticket thread here.")
		}
		s.logger.Error("ticket thread creation failed", zap.String("channel_id", itx.ChannelID()), zap.Error(err))
		return itx.RespondEphemeral(ctx, "Failed to create your ticket. Please try again later.")
	}

	s.armTimer(itx.GuildID(), thread.ID, thread.Name)

	if _, err := s.client.SendMessageWithControls(ctx, thread.ID,
		fmt.Sprintf("Hello <@%s>, how can the admin team assist you today?", e.OpenerID),
		workflow.TicketControls(e.OpenerID)); err != nil {
		s.logger.Warn("ticket greeting failed", zap.String("thread_id", thread.ID), zap.Error(err))
	}

	_ = itx.RespondEphemeral(ctx, fmt.Sprintf("A private support ticket has been created for you: <#%s>", thread.ID))
	_ = s.sink.Post(ctx, itx.GuildID(), fmt.Sprintf("🎫 Ticket `%s` opened by <@%s>", thread.Name, e.OpenerID))
	s.publishTicket(ctx, events.EventTicketOpened, itx.GuildID(), e.OpenerID, thread.ID, thread.Name, e.OpenerID)
	return nil
}

func (s *TicketService) publishTicket(ctx context.Context, typ events.EventType, guildID, actorID, threadID, threadName, openerID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		GuildID:   guildID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketPayload{
			ThreadID:   threadID,
			ThreadName: threadName,
			OpenerID:   openerID,
		},
	})
}
