package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/moderation-service/internal/platform"
)

func convertGuild(g *discordgo.Guild) *platform.Guild {
	return &platform.Guild{
		ID:      g.ID,
		Name:    g.Name,
		OwnerID: g.OwnerID,
		IconURL: g.IconURL("128"),
	}
}

func convertMember(m *discordgo.Member, perms platform.PermissionSet) *platform.Member {
	member := &platform.Member{
		Nick:        m.Nick,
		Roles:       m.Roles,
		Permissions: perms,
	}
	if m.User != nil {
		member.ID = m.User.ID
		member.Username = m.User.Username
		member.DisplayName = m.User.GlobalName
		member.AvatarURL = m.User.AvatarURL("128")
		member.IsBot = m.User.Bot
	}
	if member.DisplayName == "" {
		member.DisplayName = member.Username
	}
	if m.Nick != "" {
		member.DisplayName = m.Nick
	}
	return member
}

func convertChannel(ch *discordgo.Channel) platform.Channel {
	return platform.Channel{
		ID:      ch.ID,
		GuildID: ch.GuildID,
		Name:    ch.Name,
		Type:    channelType(ch.Type),
	}
}

func channelType(t discordgo.ChannelType) platform.ChannelType {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return platform.ChannelText
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return platform.ChannelVoice
	case discordgo.ChannelTypeGuildCategory:
		return platform.ChannelCategory
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
		return platform.ChannelThread
	default:
		return platform.ChannelOther
	}
}

func convertThread(ch *discordgo.Channel) platform.Thread {
	thread := platform.Thread{
		ID:       ch.ID,
		ParentID: ch.ParentID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		OwnerID:  ch.OwnerID,
	}
	if ch.ThreadMetadata != nil {
		thread.Archived = ch.ThreadMetadata.Archived
		thread.Locked = ch.ThreadMetadata.Locked
	}
	return thread
}

func convertMessage(m *discordgo.Message) platform.Message {
	msg := platform.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorIsBot = m.Author.Bot
	}
	return msg
}

func permissionSet(perms int64) platform.PermissionSet {
	has := func(bit int64) bool { return perms&bit == bit }
	if has(discordgo.PermissionAdministrator) {
		return platform.PermissionSet{
			Administrator: true, ManageGuild: true, ManageChannels: true,
			ManageThreads: true, ManageMessages: true, KickMembers: true,
			BanMembers: true, MentionEveryone: true,
		}
	}
	return platform.PermissionSet{
		ManageGuild:     has(discordgo.PermissionManageServer),
		ManageChannels:  has(discordgo.PermissionManageChannels),
		ManageThreads:   has(discordgo.PermissionManageThreads),
		ManageMessages:  has(discordgo.PermissionManageMessages),
		KickMembers:     has(discordgo.PermissionKickMembers),
		BanMembers:      has(discordgo.PermissionBanMembers),
		MentionEveryone: has(discordgo.PermissionMentionEveryone),
	}
}

func controlsToComponents(controls []platform.Control) []discordgo.MessageComponent {
	if len(controls) == 0 {
		return nil
	}
	row := discordgo.ActionsRow{}
	for _, control := range controls {
		if len(control.Options) > 0 {
			options := make([]discordgo.SelectMenuOption, 0, len(control.Options))
			for _, opt := range control.Options {
				options = append(options, discordgo.SelectMenuOption{Label: opt, Value: opt})
			}
			row.Components = append(row.Components, discordgo.SelectMenu{
				CustomID:    control.ID,
				Placeholder: control.Label,
				Options:     options,
				Disabled:    control.Disabled,
			})
			continue
		}
		button := discordgo.Button{
			Label:    control.Label,
			Style:    buttonStyle(control.Style),
			Disabled: control.Disabled,
		}
		if control.URL != "" {
			button.Style = discordgo.LinkButton
			button.URL = control.URL
		} else {
			button.CustomID = control.ID
		}
		row.Components = append(row.Components, button)
	}
	return []discordgo.MessageComponent{row}
}

func buttonStyle(style platform.ControlStyle) discordgo.ButtonStyle {
	switch style {
	case platform.StyleSuccess:
		return discordgo.SuccessButton
	case platform.StyleDanger:
		return discordgo.DangerButton
	case platform.StyleSecondary:
		return discordgo.SecondaryButton
	case platform.StyleLink:
		return discordgo.LinkButton
	default:
		return discordgo.PrimaryButton
	}
}

func cardToEmbed(card platform.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Color:       int(card.Color),
	}
	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if card.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	}
	return embed
}

func embedToCard(embed *discordgo.MessageEmbed) platform.Card {
	card := platform.Card{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       platform.CardColor(embed.Color),
	}
	for _, f := range embed.Fields {
		card.Fields = append(card.Fields, platform.CardField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if embed.Footer != nil {
		card.Footer = embed.Footer.Text
	}
	return card
}
