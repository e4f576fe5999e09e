// Package discord adapts the vendor SDK to the platform interfaces the
// workflows are written against.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/moderation-service/internal/platform"
)

const (
	memberPageSize       = 1000
	threadArchiveMinutes = 60
	historyDefaultLimit  = 25
	purgeScanLimit       = 100
)

// Client implements platform.Client over a discordgo session.
type Client struct {
	session *discordgo.Session
}

// NewClient wraps an open session.
func NewClient(session *discordgo.Session) *Client {
	return &Client{session: session}
}

// BotUserID returns the bot's own user id.
func (c *Client) BotUserID() string {
	if c.session.State != nil && c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Guild(ctx context.Context, guildID string) (*platform.Guild, error) {
	guild, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return convertGuild(guild), nil
}

func (c *Client) Guilds(ctx context.Context) ([]platform.Guild, error) {
	raw, err := c.session.UserGuilds(200, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]platform.Guild, 0, len(raw))
	for _, g := range raw {
		guild := platform.Guild{ID: g.ID, Name: g.Name}
		// UserGuilds carries no owner id; resolve it from the full object.
		if full, ferr := c.session.Guild(g.ID, discordgo.WithContext(ctx)); ferr == nil {
			guild.OwnerID = full.OwnerID
			guild.IconURL = full.IconURL("128")
		}
		out = append(out, guild)
	}
	return out, nil
}

func (c *Client) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	perms, err := c.memberPermissions(ctx, guildID, member)
	if err != nil {
		perms = platform.PermissionSet{}
	}
	return convertMember(member, perms), nil
}

func (c *Client) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	out := make([]platform.Member, 0, memberPageSize)
	after := ""
	for {
		page, err := c.session.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapError(err)
		}
		for _, m := range page {
			out = append(out, *convertMember(m, platform.PermissionSet{}))
		}
		if len(page) < memberPageSize {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *Client) Channels(ctx context.Context, guildID string) ([]platform.Channel, error) {
	raw, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]platform.Channel, 0, len(raw))
	for _, ch := range raw {
		out = append(out, convertChannel(ch))
	}
	return out, nil
}

func (c *Client) ChannelByName(ctx context.Context, guildID, name string) (*platform.Channel, error) {
	channels, err := c.Channels(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for i := range channels {
		if channels[i].Name == name {
			return &channels[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (c *Client) CreateTextChannel(ctx context.Context, guildID, name string, adminOnly bool) (*platform.Channel, error) {
	data := discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildText,
	}
	if adminOnly {
		data.PermissionOverwrites = []*discordgo.PermissionOverwrite{
			{
				// @everyone shares the guild id; denying it view hides the
				// channel from anyone without an explicit allow.
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
		}
	}
	ch, err := c.session.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	converted := convertChannel(ch)
	return &converted, nil
}

func (c *Client) ChannelMembers(ctx context.Context, guildID, channelID string) ([]platform.Member, error) {
	if _, err := c.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return nil, mapError(err)
	}
	// Visibility is permission-math on the client; the roster endpoint does
	// not filter. Return the guild roster and let the dashboard refine.
	return c.Members(ctx, guildID)
}

func (c *Client) ChannelHistory(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	raw, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]platform.Message, 0, len(raw))
	for _, m := range raw {
		out = append(out, convertMessage(m))
	}
	return out, nil
}

func (c *Client) Roles(ctx context.Context, guildID string) ([]platform.Role, error) {
	raw, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]platform.Role, 0, len(raw))
	for _, r := range raw {
		out = append(out, platform.Role{
			ID:          r.ID,
			Name:        r.Name,
			Color:       fmt.Sprintf("#%06x", r.Color),
			Position:    r.Position,
			Permissions: r.Permissions,
			Mentionable: r.Mentionable,
			Managed:     r.Managed,
		})
	}
	return out, nil
}

func (c *Client) DefaultRoleCanSend(ctx context.Context, guildID string) (bool, error) {
	role, err := c.defaultRole(ctx, guildID)
	if err != nil {
		return false, err
	}
	return role.Permissions&discordgo.PermissionSendMessages != 0, nil
}

func (c *Client) SetDefaultRoleCanSend(ctx context.Context, guildID string, allow bool) error {
	role, err := c.defaultRole(ctx, guildID)
	if err != nil {
		return err
	}
	perms := role.Permissions
	if allow {
		perms |= discordgo.PermissionSendMessages
	} else {
		perms &^= discordgo.PermissionSendMessages
	}
	_, err = c.session.GuildRoleEdit(guildID, role.ID, &discordgo.RoleParams{Permissions: &perms}, discordgo.WithContext(ctx))
	return mapError(err)
}

// defaultRole returns the everyone role, which shares the guild's id.
func (c *Client) defaultRole(ctx context.Context, guildID string) (*discordgo.Role, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	for _, r := range roles {
		if r.ID == guildID {
			return r, nil
		}
	}
	return nil, platform.ErrNotFound
}

func (c *Client) ActiveThreads(ctx context.Context, guildID, channelID string) ([]platform.Thread, error) {
	list, err := c.session.GuildThreadsActive(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]platform.Thread, 0, len(list.Threads))
	for _, th := range list.Threads {
		if channelID != "" && th.ParentID != channelID {
			continue
		}
		out = append(out, convertThread(th))
	}
	return out, nil
}

func (c *Client) Thread(ctx context.Context, threadID string) (*platform.Thread, error) {
	ch, err := c.session.Channel(threadID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	if !ch.IsThread() {
		return nil, platform.ErrNotFound
	}
	converted := convertThread(ch)
	return &converted, nil
}

func (c *Client) CreatePrivateThread(ctx context.Context, channelID, name string) (*platform.Thread, error) {
	ch, err := c.session.ThreadStart(channelID, name, discordgo.ChannelTypeGuildPrivateThread, threadArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	converted := convertThread(ch)
	return &converted, nil
}

func (c *Client) ArchiveThread(ctx context.Context, threadID string, locked bool) error {
	archived := true
	edit := &discordgo.ChannelEdit{Archived: &archived}
	if locked {
		edit.Locked = &locked
	}
	_, err := c.session.ChannelEdit(threadID, edit, discordgo.WithContext(ctx))
	return mapError(err)
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	_, err := c.session.ChannelDelete(threadID, discordgo.WithContext(ctx))
	return mapError(err)
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) (*platform.Message, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	converted := convertMessage(msg)
	return &converted, nil
}

func (c *Client) SendMessageWithControls(ctx context.Context, channelID, content string, controls []platform.Control) (*platform.Message, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: controlsToComponents(controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	converted := convertMessage(msg)
	return &converted, nil
}

func (c *Client) SendCard(ctx context.Context, channelID string, card platform.Card, controls []platform.Control) (*platform.Message, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{cardToEmbed(card)},
		Components: controlsToComponents(controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	converted := convertMessage(msg)
	return &converted, nil
}

func (c *Client) SendDirect(ctx context.Context, userID, content string) error {
	dm, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	_, err = c.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx))
	return mapError(err)
}

func (c *Client) PurgeBotMessages(ctx context.Context, channelID string) error {
	messages, err := c.session.ChannelMessages(channelID, purgeScanLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	botID := c.BotUserID()
	for _, m := range messages {
		if m.Author == nil || m.Author.ID != botID {
			continue
		}
		if err := c.session.ChannelMessageDelete(channelID, m.ID, discordgo.WithContext(ctx)); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (c *Client) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return mapError(c.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)))
}

func (c *Client) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return mapError(c.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

// memberPermissions folds the member's role permissions together. Owners
// get everything.
func (c *Client) memberPermissions(ctx context.Context, guildID string, member *discordgo.Member) (platform.PermissionSet, error) {
	guild, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return platform.PermissionSet{}, mapError(err)
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return platform.PermissionSet{Administrator: true}, nil
	}
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return platform.PermissionSet{}, mapError(err)
	}
	byID := make(map[string]*discordgo.Role, len(roles))
	var everyone int64
	for _, r := range roles {
		byID[r.ID] = r
		if r.ID == guildID {
			everyone = r.Permissions
		}
	}
	perms := everyone
	for _, roleID := range member.Roles {
		if r, ok := byID[roleID]; ok {
			perms |= r.Permissions
		}
	}
	return permissionSet(perms), nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		detail := ""
		if rest.Message != nil {
			detail = rest.Message.Message
		}
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", platform.ErrForbidden, detail)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", platform.ErrNotFound, detail)
		}
	}
	return err
}
