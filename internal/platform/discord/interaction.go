package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/spec-kit/moderation-service/internal/platform"
)

// interaction adapts one InteractionCreate to platform.Interaction. The
// vendor allows a single initial response per interaction; once one has
// been sent, further responses transparently become followups.
type interaction struct {
	session   *discordgo.Session
	event     *discordgo.InteractionCreate
	responded bool
}

func newInteraction(session *discordgo.Session, event *discordgo.InteractionCreate) *interaction {
	return &interaction{session: session, event: event}
}

func (i *interaction) GuildID() string   { return i.event.GuildID }
func (i *interaction) ChannelID() string { return i.event.ChannelID }

func (i *interaction) Actor() platform.Member {
	member := i.event.Member
	if member == nil {
		if i.event.User != nil {
			return platform.Member{ID: i.event.User.ID, Username: i.event.User.Username}
		}
		return platform.Member{}
	}
	return *convertMember(member, permissionSet(member.Permissions))
}

func (i *interaction) CustomID() string {
	switch i.event.Type {
	case discordgo.InteractionMessageComponent:
		return i.event.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.event.ModalSubmitData().CustomID
	default:
		return ""
	}
}

func (i *interaction) Thread(ctx context.Context) (*platform.Thread, bool) {
	ch, err := i.session.Channel(i.event.ChannelID, discordgo.WithContext(ctx))
	if err != nil || !ch.IsThread() {
		return nil, false
	}
	thread := convertThread(ch)
	return &thread, true
}

func (i *interaction) SourceCard() (platform.Card, bool) {
	msg := i.event.Message
	if msg == nil || len(msg.Embeds) == 0 {
		return platform.Card{}, false
	}
	return embedToCard(msg.Embeds[0]), true
}

func (i *interaction) RespondEphemeral(ctx context.Context, content string) error {
	if i.responded {
		_, err := i.session.FollowupMessageCreate(i.event.Interaction, true, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		return mapError(err)
	}
	err := i.session.InteractionRespond(i.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err == nil {
		i.responded = true
	}
	return mapError(err)
}

func (i *interaction) RespondEphemeralWithControls(ctx context.Context, content string, controls []platform.Control) error {
	components := controlsToComponents(controls)
	if i.responded {
		_, err := i.session.FollowupMessageCreate(i.event.Interaction, true, &discordgo.WebhookParams{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		return mapError(err)
	}
	err := i.session.InteractionRespond(i.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err == nil {
		i.responded = true
	}
	return mapError(err)
}

func (i *interaction) OpenForm(ctx context.Context, form platform.Form) error {
	components := make([]discordgo.MessageComponent, 0, len(form.Fields))
	for _, field := range form.Fields {
		style := discordgo.TextInputShort
		if field.Paragraph {
			style = discordgo.TextInputParagraph
		}
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    field.ID,
					Label:       field.Label,
					Style:       style,
					Placeholder: field.Placeholder,
					Required:    field.Required,
					MaxLength:   field.MaxLength,
				},
			},
		})
	}
	err := i.session.InteractionRespond(i.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   form.ID,
			Title:      form.Title,
			Components: components,
		},
	}, discordgo.WithContext(ctx))
	if err == nil {
		i.responded = true
	}
	return mapError(err)
}

func (i *interaction) Defer(ctx context.Context) error {
	if i.responded {
		return nil
	}
	err := i.session.InteractionRespond(i.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err == nil {
		i.responded = true
	}
	return mapError(err)
}

func (i *interaction) Followup(ctx context.Context, content string) error {
	_, err := i.session.FollowupMessageCreate(i.event.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	return mapError(err)
}

func (i *interaction) EditSource(ctx context.Context, card platform.Card, controls []platform.Control) error {
	msg := i.event.Message
	if msg == nil {
		return platform.ErrNotFound
	}
	embeds := []*discordgo.MessageEmbed{cardToEmbed(card)}
	components := controlsToComponents(controls)
	_, err := i.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    msg.ChannelID,
		ID:         msg.ID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return mapError(err)
}

// DisableSourceControls replaces the source message in place with every
// control disabled. Ephemeral messages can only be rewritten through the
// interaction response, so this consumes the initial response slot.
func (i *interaction) DisableSourceControls(ctx context.Context) error {
	msg := i.event.Message
	if msg == nil || i.responded {
		return nil
	}
	components := disableComponents(msg.Components)
	err := i.session.InteractionRespond(i.event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    msg.Content,
			Components: components,
		},
	}, discordgo.WithContext(ctx))
	if err == nil {
		i.responded = true
	}
	return mapError(err)
}

func (i *interaction) FormValue(id string) string {
	if i.event.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, row := range i.event.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == id {
				return input.Value
			}
		}
	}
	return ""
}

func (i *interaction) SelectedValue() string {
	if i.event.Type != discordgo.InteractionMessageComponent {
		return ""
	}
	values := i.event.MessageComponentData().Values
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func disableComponents(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, comp := range components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			out = append(out, comp)
			continue
		}
		newRow := discordgo.ActionsRow{}
		for _, inner := range row.Components {
			switch c := inner.(type) {
			case *discordgo.Button:
				b := *c
				b.Disabled = true
				newRow.Components = append(newRow.Components, b)
			case *discordgo.SelectMenu:
				s := *c
				s.Disabled = true
				newRow.Components = append(newRow.Components, s)
			default:
				newRow.Components = append(newRow.Components, inner)
			}
		}
		out = append(out, newRow)
	}
	return out
}
