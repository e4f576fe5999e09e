package workflow

import "github.com/spec-kit/moderation-service/internal/platform"

// AdminPanelCard is the control-panel card posted into the admin channel.
func AdminPanelCard() platform.Card {
	return platform.Card{
		Title:       "Admin Control Panel",
		Description: "Use the buttons below to manage the server.",
		Color:       platform.ColorRed,
	}
}

// AdminControls builds the panel's buttons. The lockdown button mirrors the
// current state: while the guild is locked it reads "Unlock Server".
func AdminControls(locked bool, dashboardURL string) []platform.Control {
	lockdown := platform.Control{ID: ControlLockdown, Label: "Lockdown Server", Style: platform.StyleDanger}
	if locked {
		lockdown.Label = "Unlock Server"
		lockdown.Style = platform.StyleSuccess
	}
	controls := []platform.Control{
		lockdown,
		{ID: ControlBroadcast, Label: "Broadcast Message", Style: platform.StyleSecondary},
	}
	if dashboardURL != "" {
		controls = append(controls, platform.Control{Label: "View Web Dashboard", Style: platform.StyleLink, URL: dashboardURL})
	}
	return controls
}

// CanLockdown reports whether the member may toggle the server lockdown.
func CanLockdown(member platform.Member) bool {
	return member.Permissions.ManageChannels || member.Permissions.Administrator
}

// CanBroadcast reports whether the member may broadcast into a channel.
func CanBroadcast(member platform.Member) bool {
	return member.Permissions.MentionEveryone || member.Permissions.Administrator
}

// BroadcastForm is the modal collecting a broadcast's target channel and body.
func BroadcastForm() platform.Form {
	return platform.Form{
		ID:    FormBroadcast,
		Title: "Broadcast a Message",
		Fields: []platform.FormField{
			{ID: FieldBroadcastChannel, Label: "Channel Name (e.g., announcements)", Placeholder: "general", Required: true},
			{ID: FieldBroadcastMessage, Label: "Your Message", Paragraph: true, Required: true, MaxLength: 2000},
		},
	}
}
