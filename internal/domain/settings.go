package domain

// Settings is the per-guild configuration blob stored as JSON. Unknown keys
// round-trip untouched so the dashboard can extend it without migrations.
type Settings map[string]any

// Default settings seeded when a guild has no stored configuration.
func DefaultSettings() Settings {
	return Settings{
		"prefix":          "!",
		"welcome_message": "Welcome to the server!",
		"log_channel":     "bot-logs",
		"auto_role":       "Member",
	}
}

func (s Settings) stringKey(key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// TicketLogChannelID returns the configured ticket-log channel id, if any.
func (s Settings) TicketLogChannelID() string {
	return s.stringKey("ticket_log_channel_id")
}

// SuggestionLogChannelID returns the configured suggestion-log channel id, if any.
func (s Settings) SuggestionLogChannelID() string {
	return s.stringKey("suggestion_log_channel_id")
}

// Set writes a key, allocating the map if needed.
func (s *Settings) Set(key string, value any) {
	if *s == nil {
		*s = Settings{}
	}
	(*s)[key] = value
}
