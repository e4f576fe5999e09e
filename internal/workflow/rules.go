package workflow

import (
	"fmt"
	"strings"
	"time"
)

// ReportRules are acknowledged before the report form opens.
var ReportRules = []string{
	"Provide clear evidence when possible (screenshots, message links).",
	"False or malicious reports may result in action against you.",
	"Emergency issues should be pinged to on-duty moderators if allowed.",
}

// TicketRules returns the rules acknowledged before a ticket opens.
func TicketRules(cooldown time.Duration) []string {
	return []string{
		"Open only one active ticket at a time.",
		"Use tickets for private matters requiring staff assistance.",
		fmt.Sprintf("Ticket creation cooldown: %ds.", int(cooldown.Seconds())),
	}
}

// RenderRules formats an intro line plus a bulleted rule list.
func RenderRules(intro string, rules []string) string {
	var b strings.Builder
	b.WriteString(intro)
	for _, rule := range rules {
		b.WriteString("\n- ")
		b.WriteString(rule)
	}
	return b.String()
}
