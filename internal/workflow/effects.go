package workflow

import "github.com/spec-kit/moderation-service/internal/domain"

// Effect is a side effect decided by a pure transition. The service layer
// executes effects against the platform; transitions themselves never touch
// I/O, which is what makes the state machines testable in isolation.
type Effect interface {
	isEffect()
}

// EffectReject aborts the flow with an ephemeral message. No state mutates.
type EffectReject struct {
	Content string
}

// EffectAck acknowledges a terminal or intermediate step ephemerally.
type EffectAck struct {
	Content string
}

// EffectShowRules presents rules text with accept and cancel controls.
type EffectShowRules struct {
	Content  string
	AcceptID string
	CancelID string
}

// EffectShowCategorySelect presents the report category menu.
type EffectShowCategorySelect struct {
	Content  string
	SelectID string
	Options  []string
}

// EffectOpenReportForm opens the report modal carrying the chosen category.
type EffectOpenReportForm struct {
	Category domain.ReportCategory
}

// EffectMarkCooldown records the opener's cooldown timestamp. Emitted only on
// rules acceptance, never on the initial button press.
type EffectMarkCooldown struct {
	UserID string
}

// EffectOpenTicket creates the private support thread, arms the inactivity
// timer, and posts the greeting with ticket controls.
type EffectOpenTicket struct {
	OpenerID   string
	ThreadName string
}

func (EffectReject) isEffect()             {}
func (EffectAck) isEffect()                {}
func (EffectShowRules) isEffect()          {}
func (EffectShowCategorySelect) isEffect() {}
func (EffectOpenReportForm) isEffect()     {}
func (EffectMarkCooldown) isEffect()       {}
func (EffectOpenTicket) isEffect()         {}
