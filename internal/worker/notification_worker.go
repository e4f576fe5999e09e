package worker

import (
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/queue"
	"github.com/spec-kit/moderation-service/internal/service"
)

// StartNotificationWorker registers the event subscribers: the structured
// log mirror and, when a broker is configured, the AMQP bridge.
func StartNotificationWorker(notificationService *service.NotificationService, publisher *queue.Publisher, dispatcher events.Dispatcher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if publisher != nil {
		publisher.Bridge(dispatcher)
	}
}
