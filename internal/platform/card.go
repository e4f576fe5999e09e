package platform

// CardColor is a decimal RGB color for a rendered card.
type CardColor int

const (
	ColorBlue   CardColor = 0x3498db
	ColorRed    CardColor = 0xe74c3c
	ColorOrange CardColor = 0xe67e22
	ColorGrey   CardColor = 0x607d8b
)

// CardField is a labeled value on a card.
type CardField struct {
	Name   string
	Value  string
	Inline bool
}

// Card is a rich message body (title, fields, footer) posted to a channel.
type Card struct {
	Title       string
	Description string
	Color       CardColor
	Fields      []CardField
	Footer      string
}

// AddField appends a field and returns the card for chaining.
func (c Card) AddField(name, value string) Card {
	c.Fields = append(c.Fields, CardField{Name: name, Value: value})
	return c
}

// ControlStyle maps to the platform's button styles.
type ControlStyle string

const (
	StylePrimary   ControlStyle = "primary"
	StyleSuccess   ControlStyle = "success"
	StyleDanger    ControlStyle = "danger"
	StyleSecondary ControlStyle = "secondary"
	StyleLink      ControlStyle = "link"
)

// Control is an interactive element attached to a message: a button, a link,
// or a single-choice select menu (when Options is non-empty).
type Control struct {
	ID       string
	Label    string
	Style    ControlStyle
	Disabled bool
	URL      string
	Options  []string
}

// DisableAll returns a copy of the controls with every element disabled.
func DisableAll(controls []Control) []Control {
	out := make([]Control, len(controls))
	for i, c := range controls {
		c.Disabled = true
		out[i] = c
	}
	return out
}

// FormField is a text input on a modal form.
type FormField struct {
	ID          string
	Label       string
	Placeholder string
	Paragraph   bool
	Required    bool
	MaxLength   int
}

// Form is a modal presented in response to an interaction.
type Form struct {
	ID     string
	Title  string
	Fields []FormField
}
