// Package dto defines the JSON payloads of the dashboard API.
package dto

import "time"

// ServerResponse is one administrable guild.
type ServerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
	IconURL string `json:"icon_url,omitempty"`
}

// MemberResponse is one guild member.
type MemberResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Status      string `json:"status,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsBot       bool   `json:"is_bot"`
}

// ChannelResponse is one guild channel.
type ChannelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RoleResponse is one guild role.
type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Position    int    `json:"position"`
	Permissions int64  `json:"permissions"`
	Mentionable bool   `json:"mentionable"`
	Managed     bool   `json:"managed"`
}

// ActivityResponse is one activity feed row.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is one channel message on the activity page.
type MessageResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoggingRequest carries the log-channel configuration write.
type LoggingRequest struct {
	TicketLogChannelID     string `json:"ticket_log_channel_id"`
	SuggestionLogChannelID string `json:"suggestion_log_channel_id"`
}

// ModerationRequest carries a warn, ban or kick.
type ModerationRequest struct {
	Reason string `json:"reason"`
}

// ReportResponse is one filed report.
type ReportResponse struct {
	ID           string    `json:"id"`
	ReporterID   string    `json:"reporter_id"`
	ReporterName string    `json:"reporter_name"`
	ReportedUser string    `json:"reported_user"`
	Reason       string    `json:"reason"`
	Category     string    `json:"category"`
	Handled      bool      `json:"handled"`
	HandledBy    string    `json:"handled_by,omitempty"`
	Resolution   string    `json:"resolution,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// WarningResponse is one recorded warning.
type WarningResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ModeratorID string    `json:"moderator_id"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
