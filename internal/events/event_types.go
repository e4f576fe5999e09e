package events

import (
	"time"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened    EventType = "ticket_opened"
	EventTicketClosed    EventType = "ticket_closed"
	EventTicketCancelled EventType = "ticket_cancelled"
	EventTicketExpired   EventType = "ticket_expired"
	EventReportFiled     EventType = "report_filed"
	EventReportEscalated EventType = "report_escalated"
	EventReportHandled   EventType = "report_handled"
	EventMemberWarned    EventType = "member_warned"
	EventMemberBanned    EventType = "member_banned"
	EventMemberKicked    EventType = "member_kicked"
)

// AllTypes lists every event type, for subscribers bridging the full stream.
func AllTypes() []EventType {
	return []EventType{
		EventTicketOpened, EventTicketClosed, EventTicketCancelled, EventTicketExpired,
		EventReportFiled, EventReportEscalated, EventReportHandled,
		EventMemberWarned, EventMemberBanned, EventMemberKicked,
	}
}

// Event represents a domain event emitted by the workflows.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketPayload describes ticket lifecycle events.
type TicketPayload struct {
	ThreadID   string `json:"thread_id"`
	ThreadName string `json:"thread_name"`
	OpenerID   string `json:"opener_id,omitempty"`
}

// ReportPayload describes report lifecycle events.
type ReportPayload struct {
	ReportID     string                  `json:"report_id"`
	Category     domain.ReportCategory   `json:"category"`
	ReportedUser string                  `json:"reported_user"`
	Resolution   domain.ReportResolution `json:"resolution,omitempty"`
	Escalated    bool                    `json:"escalated"`
}

// ModerationPayload describes warn/ban/kick events.
type ModerationPayload struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}
