package platform

import "context"

// Client is the chat-platform collaborator. The vendor SDK handles the wire
// protocol; everything here is typed pass-through used by the workflows and
// the dashboard API.
type Client interface {
	BotUserID() string

	Guild(ctx context.Context, guildID string) (*Guild, error)
	Guilds(ctx context.Context) ([]Guild, error)
	Member(ctx context.Context, guildID, userID string) (*Member, error)
	Members(ctx context.Context, guildID string) ([]Member, error)

	Channels(ctx context.Context, guildID string) ([]Channel, error)
	ChannelByName(ctx context.Context, guildID, name string) (*Channel, error)
	CreateTextChannel(ctx context.Context, guildID, name string, adminOnly bool) (*Channel, error)
	ChannelMembers(ctx context.Context, guildID, channelID string) ([]Member, error)
	ChannelHistory(ctx context.Context, channelID string, limit int) ([]Message, error)
	Roles(ctx context.Context, guildID string) ([]Role, error)

	// DefaultRoleCanSend reports whether the guild's everyone role may send
	// messages, i.e. whether the guild is NOT locked down.
	DefaultRoleCanSend(ctx context.Context, guildID string) (bool, error)
	// SetDefaultRoleCanSend grants or revokes the everyone role's
	// send-messages permission.
	SetDefaultRoleCanSend(ctx context.Context, guildID string, allow bool) error

	ActiveThreads(ctx context.Context, guildID, channelID string) ([]Thread, error)
	Thread(ctx context.Context, threadID string) (*Thread, error)
	CreatePrivateThread(ctx context.Context, channelID, name string) (*Thread, error)
	ArchiveThread(ctx context.Context, threadID string, locked bool) error
	DeleteThread(ctx context.Context, threadID string) error

	SendMessage(ctx context.Context, channelID, content string) (*Message, error)
	SendMessageWithControls(ctx context.Context, channelID, content string, controls []Control) (*Message, error)
	SendCard(ctx context.Context, channelID string, card Card, controls []Control) (*Message, error)
	SendDirect(ctx context.Context, userID, content string) error
	PurgeBotMessages(ctx context.Context, channelID string) error

	BanMember(ctx context.Context, guildID, userID, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
}

// Interaction is one user-initiated control press, select, or form
// submission. It is short-lived: respond or defer before it expires, and use
// Followup for anything slow after a Defer.
type Interaction interface {
	GuildID() string
	ChannelID() string
	Actor() Member

	// CustomID is the id of the pressed control, chosen select, or
	// submitted form.
	CustomID() string

	// Thread returns the thread hosting the interaction, when it happened
	// inside one.
	Thread(ctx context.Context) (*Thread, bool)

	// SourceCard returns the card on the message whose control was pressed.
	SourceCard() (Card, bool)

	RespondEphemeral(ctx context.Context, content string) error
	RespondEphemeralWithControls(ctx context.Context, content string, controls []Control) error
	OpenForm(ctx context.Context, form Form) error
	Defer(ctx context.Context) error
	Followup(ctx context.Context, content string) error

	// EditSource rewrites the card and controls on the message that hosted
	// the pressed control.
	EditSource(ctx context.Context, card Card, controls []Control) error

	// DisableSourceControls makes the pressed control surface inert.
	DisableSourceControls(ctx context.Context) error

	// FormValue returns a submitted form field by id.
	FormValue(id string) string

	// SelectedValue returns the chosen option of a select control.
	SelectedValue() string
}
