package domain

import "time"

// Warning records a moderator-issued warning.
type Warning struct {
	ID          string
	GuildID     string
	UserID      string
	ModeratorID string
	Reason      string
	CreatedAt   time.Time
}

// Ban records a ban applied through the service.
type Ban struct {
	ID          string
	GuildID     string
	UserID      string
	ModeratorID *string
	Reason      string
	CreatedAt   time.Time
}

// RoleSnapshot is an upserted copy of a guild role, synced on demand for the
// dashboard.
type RoleSnapshot struct {
	GuildID     string
	RoleID      string
	Name        string
	Color       string
	Position    int
	Permissions int64
	Mentionable bool
	Managed     bool
	UpdatedAt   time.Time
}
