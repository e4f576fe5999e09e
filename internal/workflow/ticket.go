package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/moderation-service/internal/platform"
)

// TicketStep tags the ticket flow's position.
type TicketStep string

const (
	TicketIdle       TicketStep = "idle"
	TicketRulesShown TicketStep = "rules_shown"
	TicketAccepted   TicketStep = "accepted"
	TicketCancelled  TicketStep = "cancelled"
)

// TicketFlow carries the accumulated context of one ticket-open attempt.
type TicketFlow struct {
	Step     TicketStep
	OpenerID string
	Username string
}

// TicketEvent drives a ticket flow transition.
type TicketEvent interface {
	isTicketEvent()
}

// TicketOpenRequested is the initial button press. The caller supplies the
// cooldown verdict and the channel's open threads; the transition stays pure.
type TicketOpenRequested struct {
	CooldownRemaining time.Duration
	OpenThreads       []platform.Thread
	BotID             string
	CooldownWindow    time.Duration
}

// TicketRulesAccepted is the "I Understand" press on the rules prompt.
type TicketRulesAccepted struct{}

// TicketRulesDeclined is the "Cancel" press on the rules prompt.
type TicketRulesDeclined struct{}

func (TicketOpenRequested) isTicketEvent() {}
func (TicketRulesAccepted) isTicketEvent() {}
func (TicketRulesDeclined) isTicketEvent() {}

// NewTicketFlow starts an idle flow for the requesting user.
func NewTicketFlow(openerID, username string) TicketFlow {
	return TicketFlow{Step: TicketIdle, OpenerID: openerID, Username: username}
}

// ThreadName is the private thread created for an accepted ticket.
func (f TicketFlow) ThreadName() string {
	return "support-" + f.Username
}

// Next applies one event and returns the successor flow plus the side effects
// the runtime adapter must execute.
func (f TicketFlow) Next(event TicketEvent) (TicketFlow, []Effect) {
	switch ev := event.(type) {
	case TicketOpenRequested:
		if f.Step != TicketIdle {
			return f, nil
		}
		if ev.CooldownRemaining > 0 {
			return f, []Effect{EffectReject{Content: fmt.Sprintf(
				"Please wait %ds before opening another ticket.", int(ev.CooldownRemaining.Seconds()))}}
		}
		if hasActiveTicket(ev.OpenThreads, ev.BotID, f.Username) {
			return f, []Effect{EffectReject{Content: "You already have an active ticket in this channel."}}
		}
		f.Step = TicketRulesShown
		return f, []Effect{EffectShowRules{
			Content:  RenderRules("Before opening a ticket, please review:", TicketRules(ev.CooldownWindow)),
			AcceptID: EncodeID(ControlTicketRulesAccept, f.OpenerID, f.Username),
			CancelID: ControlTicketRulesCancel,
		}}

	case TicketRulesAccepted:
		if f.Step != TicketRulesShown {
			return f, nil
		}
		f.Step = TicketAccepted
		return f, []Effect{
			EffectMarkCooldown{UserID: f.OpenerID},
			EffectOpenTicket{OpenerID: f.OpenerID, ThreadName: f.ThreadName()},
		}

	case TicketRulesDeclined:
		if f.Step != TicketRulesShown {
			return f, nil
		}
		f.Step = TicketCancelled
		return f, []Effect{EffectAck{Content: "Ticket creation canceled."}}
	}
	return f, nil
}

// DecodeTicketFlow rebuilds a rules-shown flow from an accept control id.
func DecodeTicketFlow(parts []string) (TicketFlow, bool) {
	if len(parts) < 2 {
		return TicketFlow{}, false
	}
	return TicketFlow{Step: TicketRulesShown, OpenerID: parts[0], Username: strings.Join(parts[1:], "|")}, true
}

// hasActiveTicket reports whether a non-archived bot-owned thread in the
// channel already embeds the requester's name.
func hasActiveTicket(threads []platform.Thread, botID, username string) bool {
	for _, th := range threads {
		if th.OwnerID == botID && !th.Archived && strings.Contains(th.Name, username) {
			return true
		}
	}
	return false
}

// CanCloseTicket allows the opener plus anyone holding thread-management,
// channel-management or administrator capability.
func CanCloseTicket(actorID, openerID string, perms platform.PermissionSet) bool {
	return actorID == openerID || perms.CanManageTickets()
}

// CanCancelTicket allows only management or administrator holders.
func CanCancelTicket(perms platform.PermissionSet) bool {
	return perms.CanManageTickets()
}

// TicketControls are posted with the greeting inside a new ticket thread.
func TicketControls(openerID string) []platform.Control {
	return []platform.Control{
		{ID: EncodeID(ControlTicketClose, openerID), Label: "Close Ticket", Style: platform.StyleSuccess},
		{ID: ControlTicketCancel, Label: "Cancel Ticket (Admin)", Style: platform.StyleDanger},
	}
}
