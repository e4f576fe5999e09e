// Package logsink delivers best-effort notices to a guild's ticket-log channel.
package logsink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/observability"
	"github.com/spec-kit/moderation-service/internal/platform"
)

// SettingsSource reads the per-guild settings blob.
type SettingsSource interface {
	Get(ctx context.Context, guildID string) (domain.Settings, error)
}

// Sink posts ticket lifecycle notices. Delivery is never load-bearing: callers
// treat a returned error as best-effort, and every failure is counted so it
// stays observable instead of silently discarded.
type Sink struct {
	client          platform.Client
	settings        SettingsSource
	metrics         *observability.Metrics
	logger          *zap.Logger
	fallbackChannel string
}

// NewSink constructs a sink falling back to the named channel when no
// ticket_log_channel_id is configured for the guild.
func NewSink(client platform.Client, settings SettingsSource, metrics *observability.Metrics, logger *zap.Logger, fallbackChannel string) *Sink {
	return &Sink{
		client:          client,
		settings:        settings,
		metrics:         metrics,
		logger:          logger,
		fallbackChannel: fallbackChannel,
	}
}

// Post sends one message to the guild's ticket-log channel.
func (s *Sink) Post(ctx context.Context, guildID, message string) error {
	channelID, err := s.resolveChannel(ctx, guildID)
	if err != nil {
		return s.fail(guildID, err)
	}
	if _, err := s.client.SendMessage(ctx, channelID, message); err != nil {
		return s.fail(guildID, err)
	}
	return nil
}

func (s *Sink) resolveChannel(ctx context.Context, guildID string) (string, error) {
	if settings, err := s.settings.Get(ctx, guildID); err == nil {
		if id := settings.TicketLogChannelID(); id != "" {
			return id, nil
		}
	}
	channel, err := s.client.ChannelByName(ctx, guildID, s.fallbackChannel)
	if err != nil {
		return "", fmt.Errorf("resolve ticket log channel: %w", err)
	}
	return channel.ID, nil
}

func (s *Sink) fail(guildID string, err error) error {
	s.metrics.RecordLogSinkFailure()
	s.logger.Warn("ticket log delivery failed", zap.String("guild_id", guildID), zap.Error(err))
	return err
}
