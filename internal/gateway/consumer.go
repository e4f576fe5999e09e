// Package gateway consumes chat-platform events and feeds them into the
// moderation workflows, the activity feed and the presence socket.
package gateway

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/repository"
	"github.com/spec-kit/moderation-service/internal/service"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

const handlerTimeout = 30 * time.Second

// PresenceBroadcaster fans a presence change out to connected dashboards.
type PresenceBroadcaster interface {
	BroadcastPresence(update platform.PresenceUpdate)
}

// ChannelNames are the well-known channels provisioned on guild join.
type ChannelNames struct {
	Support   string
	Admin     string
	TicketLog string
}

// Consumer drains the gateway event stream. One goroutine reads the
// channel; each event is handled inline with a bounded context, so a stuck
// platform call cannot wedge the stream forever.
type Consumer struct {
	client   platform.Client
	gw       platform.Gateway
	router   *Router
	tickets  *service.TicketService
	admin    *service.AdminService
	activity repository.ActivityRepository
	presence PresenceBroadcaster
	channels ChannelNames
	logger   *zap.Logger
}

// NewConsumer creates the consumer.
func NewConsumer(
	client platform.Client,
	gw platform.Gateway,
	router *Router,
	tickets *service.TicketService,
	admin *service.AdminService,
	activity repository.ActivityRepository,
	presence PresenceBroadcaster,
	channels ChannelNames,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		client:   client,
		gw:       gw,
		router:   router,
		tickets:  tickets,
		admin:    admin,
		activity: activity,
		presence: presence,
		channels: channels,
		logger:   logger,
	}
}

// Run consumes events until ctx is cancelled or the stream closes.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.gw.Events():
			if !ok {
				c.logger.Info("gateway event stream closed")
				return
			}
			c.handle(ctx, event)
		}
	}
}

func (c *Consumer) handle(parent context.Context, event platform.Event) {
	ctx, cancel := context.WithTimeout(parent, handlerTimeout)
	defer cancel()

	switch event.Type {
	case platform.EventMessage:
		c.onMessage(ctx, event.GuildID, event.Message)
	case platform.EventVoice:
		c.onVoice(ctx, event.Voice)
	case platform.EventPresence:
		c.onPresence(event.Presence)
	case platform.EventGuildJoin:
		c.onGuildJoin(ctx, event.Guild)
	case platform.EventInteraction:
		c.router.Dispatch(ctx, event.Interaction)
	case platform.EventReady:
		c.logger.Info("gateway ready", zap.String("bot_id", c.client.BotUserID()))
	}
}

// onMessage appends a best-effort activity row and re-arms the inactivity
// timer when the message landed inside a live ticket thread.
func (c *Consumer) onMessage(ctx context.Context, guildID string, msg *platform.Message) {
	if msg == nil || msg.AuthorIsBot {
		return
	}

	if guildID != "" {
		entry := domain.ActivityEntry{
			GuildID:   guildID,
			UserID:    msg.AuthorID,
			Username:  msg.AuthorName,
			Type:      domain.ActivityMessage,
			Content:   truncate(msg.Content, 500),
			ChannelID: msg.ChannelID,
		}
		if err := c.activity.Create(ctx, &entry); err != nil {
			c.logger.Debug("activity insert failed", zap.String("user_id", msg.AuthorID), zap.Error(err))
		}
	}

	if thread, err := c.client.Thread(ctx, msg.ChannelID); err == nil && thread != nil {
		c.tickets.ResetTimer(guildID, *thread)
	}
}

// onVoice appends join/leave rows. A channel switch is a leave plus a join.
func (c *Consumer) onVoice(ctx context.Context, update *platform.VoiceUpdate) {
	if update == nil || update.IsBot {
		return
	}

	var entries []domain.ActivityEntry
	if update.BeforeChannel != "" && update.BeforeChannel != update.AfterChannel {
		entries = append(entries, domain.ActivityEntry{
			GuildID:   update.GuildID,
			UserID:    update.UserID,
			Type:      domain.ActivityVoiceLeave,
			ChannelID: update.BeforeChannel,
		})
	}
	if update.AfterChannel != "" && update.AfterChannel != update.BeforeChannel {
		entries = append(entries, domain.ActivityEntry{
			GuildID:   update.GuildID,
			UserID:    update.UserID,
			Type:      domain.ActivityVoiceJoin,
			ChannelID: update.AfterChannel,
		})
	}
	if len(entries) == 0 {
		return
	}
	if err := c.activity.CreateBatch(ctx, entries); err != nil {
		c.logger.Debug("voice activity insert failed", zap.String("user_id", update.UserID), zap.Error(err))
	}
}

func (c *Consumer) onPresence(update *platform.PresenceUpdate) {
	if update == nil || c.presence == nil {
		return
	}
	c.presence.BroadcastPresence(*update)
}

// onGuildJoin provisions the well-known channels and posts the entry-point
// card so a fresh guild is usable without manual setup.
func (c *Consumer) onGuildJoin(ctx context.Context, guild *platform.Guild) {
	if guild == nil {
		return
	}
	c.logger.Info("joined guild", zap.String("guild_id", guild.ID), zap.String("name", guild.Name))

	support := c.ensureChannel(ctx, guild.ID, c.channels.Support, false)
	admin := c.ensureChannel(ctx, guild.ID, c.channels.Admin, true)
	c.ensureChannel(ctx, guild.ID, c.channels.TicketLog, true)

	if admin != nil && c.admin != nil {
		if err := c.client.PurgeBotMessages(ctx, admin.ID); err != nil {
			c.logger.Warn("stale message purge failed", zap.String("channel_id", admin.ID), zap.Error(err))
		}
		if err := c.admin.PostPanel(ctx, guild.ID, admin.ID); err != nil {
			c.logger.Warn("admin panel post failed", zap.String("channel_id", admin.ID), zap.Error(err))
		}
	}

	if support == nil {
		return
	}
	if err := c.client.PurgeBotMessages(ctx, support.ID); err != nil {
		c.logger.Warn("stale message purge failed", zap.String("channel_id", support.ID), zap.Error(err))
	}

	card := platform.Card{
		Title:       "Need help? Found a problem?",
		Description: "Use the buttons below to file a report against a user or open a private support ticket with the admin team.",
		Color:       platform.ColorBlue,
	}
	controls := []platform.Control{
		{ID: workflow.ControlFileReport, Label: "File a Report", Style: platform.StyleDanger},
		{ID: workflow.ControlOpenTicket, Label: "Open a Ticket", Style: platform.StylePrimary},
	}
	if _, err := c.client.SendCard(ctx, support.ID, card, controls); err != nil {
		c.logger.Warn("entry card post failed", zap.String("channel_id", support.ID), zap.Error(err))
	}
}

func (c *Consumer) ensureChannel(ctx context.Context, guildID, name string, adminOnly bool) *platform.Channel {
	if name == "" {
		return nil
	}
	if channel, err := c.client.ChannelByName(ctx, guildID, name); err == nil {
		return channel
	}
	channel, err := c.client.CreateTextChannel(ctx, guildID, name, adminOnly)
	if err != nil {
		c.logger.Warn("channel provisioning failed",
			zap.String("guild_id", guildID), zap.String("name", name), zap.Error(err))
		return nil
	}
	return channel
}

// truncate caps s at max bytes, backing off so a multi-byte rune is never
// split mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
