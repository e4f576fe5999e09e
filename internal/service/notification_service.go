package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/events"
)

// NotificationService mirrors the moderation event stream into the
// structured log, one line per event. It is the always-on subscriber; the
// AMQP bridge is the optional second one.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to every moderation event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, typ := range events.AllTypes() {
		n.dispatcher.Subscribe(typ, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("moderation event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("guild_id", event.GuildID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}
