package platform

import "time"

// Guild is a chat-platform server.
type Guild struct {
	ID      string
	Name    string
	OwnerID string
	IconURL string
}

// PermissionSet carries the capability flags the workflows care about.
type PermissionSet struct {
	Administrator   bool
	ManageGuild     bool
	ManageChannels  bool
	ManageThreads   bool
	ManageMessages  bool
	KickMembers     bool
	BanMembers      bool
	MentionEveryone bool
}

// CanManageTickets reports whether the holder may close or cancel any ticket.
func (p PermissionSet) CanManageTickets() bool {
	return p.ManageThreads || p.ManageChannels || p.Administrator
}

// Member is a guild member as seen by the bot.
type Member struct {
	ID          string
	Username    string
	DisplayName string
	Nick        string
	Status      string
	AvatarURL   string
	Roles       []string
	Permissions PermissionSet
	IsBot       bool
}

// ChannelType distinguishes the channel kinds the dashboard exposes.
type ChannelType string

const (
	ChannelText     ChannelType = "text"
	ChannelVoice    ChannelType = "voice"
	ChannelCategory ChannelType = "category"
	ChannelThread   ChannelType = "thread"
	ChannelOther    ChannelType = "other"
)

// Channel is a guild channel.
type Channel struct {
	ID      string
	GuildID string
	Name    string
	Type    ChannelType
}

// Thread is a sub-conversation inside a text channel.
type Thread struct {
	ID       string
	ParentID string
	GuildID  string
	Name     string
	OwnerID  string
	Archived bool
	Locked   bool
}

// Message is a channel or thread message.
type Message struct {
	ID          string
	ChannelID   string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	CreatedAt   time.Time
}

// Role is a guild role.
type Role struct {
	ID          string
	Name        string
	Color       string
	Position    int
	Permissions int64
	Mentionable bool
	Managed     bool
}

// PresenceUpdate signals a member status change.
type PresenceUpdate struct {
	GuildID  string
	UserID   string
	Username string
	Status   string
}

// VoiceUpdate signals a member joining or leaving a voice channel.
// Empty ChannelID on one side indicates join-only or leave-only.
type VoiceUpdate struct {
	GuildID       string
	UserID        string
	BeforeChannel string
	AfterChannel  string
	IsBot         bool
}
