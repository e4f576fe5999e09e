package platform

import "context"

// EventType enumerates gateway events the service reacts to.
type EventType string

const (
	EventMessage     EventType = "message"
	EventPresence    EventType = "presence"
	EventVoice       EventType = "voice"
	EventGuildJoin   EventType = "guild_join"
	EventInteraction EventType = "interaction"
	EventReady       EventType = "ready"
)

// Event is one inbound gateway event. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type        EventType
	Message     *Message
	GuildID     string
	Presence    *PresenceUpdate
	Voice       *VoiceUpdate
	Guild       *Guild
	Interaction Interaction
}

// Gateway is the event-stream side of the chat platform connection.
type Gateway interface {
	Open(ctx context.Context) error
	Close() error
	Events() <-chan Event
}
