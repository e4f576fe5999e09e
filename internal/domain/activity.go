package domain

import "time"

// ActivityType enumerates tracked member activity.
type ActivityType string

const (
	ActivityMessage    ActivityType = "sent_message"
	ActivityVoiceJoin  ActivityType = "voice_join"
	ActivityVoiceLeave ActivityType = "voice_leave"
)

// ActivityEntry is one row of the member activity feed shown on the
// dashboard. Writes are best-effort; a failed insert is logged, never fatal.
type ActivityEntry struct {
	ID        string
	GuildID   string
	UserID    string
	Username  string
	Type      ActivityType
	Content   string
	Details   string
	ChannelID string
	CreatedAt time.Time
}
