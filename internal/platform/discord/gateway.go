package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/moderation-service/internal/platform"
)

const eventBuffer = 256

// Gateway implements platform.Gateway over the discordgo websocket
// connection, translating vendor events into the neutral event stream.
type Gateway struct {
	session *discordgo.Session
	events  chan platform.Event

	mu     sync.Mutex
	closed bool
}

// NewGateway builds a session from the bot token with the intents the
// workflows need. The session is not opened until Open is called.
func NewGateway(token string) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	g := &Gateway{
		session: session,
		events:  make(chan platform.Event, eventBuffer),
	}
	g.registerHandlers()
	return g, nil
}

// Session exposes the underlying session so the REST client can share it.
func (g *Gateway) Session() *discordgo.Session {
	return g.session
}

// Open connects to the gateway.
func (g *Gateway) Open(ctx context.Context) error {
	return g.session.Open()
}

// Close disconnects and ends the event stream. The closed flag is flipped
// under the same lock push holds, so a vendor handler still in flight after
// session.Close returns cannot send on the closed channel.
func (g *Gateway) Close() error {
	err := g.session.Close()

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		g.closed = true
		close(g.events)
	}
	return err
}

// Events returns the translated event stream.
func (g *Gateway) Events() <-chan platform.Event {
	return g.events
}

func (g *Gateway) registerHandlers() {
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.push(platform.Event{Type: platform.EventReady})
	})

	g.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Message == nil {
			return
		}
		msg := convertMessage(m.Message)
		g.push(platform.Event{
			Type:    platform.EventMessage,
			GuildID: m.GuildID,
			Message: &msg,
		})
	})

	g.session.AddHandler(func(s *discordgo.Session, p *discordgo.PresenceUpdate) {
		update := platform.PresenceUpdate{
			GuildID: p.GuildID,
			Status:  string(p.Status),
		}
		if p.User != nil {
			update.UserID = p.User.ID
			update.Username = p.User.Username
		}
		g.push(platform.Event{Type: platform.EventPresence, GuildID: p.GuildID, Presence: &update})
	})

	g.session.AddHandler(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		update := platform.VoiceUpdate{
			GuildID:      v.GuildID,
			UserID:       v.UserID,
			AfterChannel: v.ChannelID,
		}
		if v.BeforeUpdate != nil {
			update.BeforeChannel = v.BeforeUpdate.ChannelID
		}
		if v.Member != nil && v.Member.User != nil {
			update.IsBot = v.Member.User.Bot
		}
		g.push(platform.Event{Type: platform.EventVoice, GuildID: v.GuildID, Voice: &update})
	})

	g.session.AddHandler(func(s *discordgo.Session, gc *discordgo.GuildCreate) {
		if gc.Guild == nil {
			return
		}
		guild := convertGuild(gc.Guild)
		g.push(platform.Event{Type: platform.EventGuildJoin, GuildID: gc.ID, Guild: guild})
	})

	g.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
			g.push(platform.Event{
				Type:        platform.EventInteraction,
				GuildID:     i.GuildID,
				Interaction: newInteraction(s, i),
			})
		}
	})
}

// push drops events rather than block the vendor's dispatch goroutine, and
// drops everything once the gateway is closed.
func (g *Gateway) push(event platform.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	select {
	case g.events <- event:
	default:
	}
}
