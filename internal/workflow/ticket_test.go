package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/moderation-service/internal/platform"
)

func openRequest(remaining time.Duration, threads []platform.Thread) TicketOpenRequested {
	return TicketOpenRequested{
		CooldownRemaining: remaining,
		OpenThreads:       threads,
		BotID:             "bot-1",
		CooldownWindow:    120 * time.Second,
	}
}

func TestTicketFlow_CooldownRejection(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")

	next, effects := flow.Next(openRequest(45*time.Second, nil))

	assert.Equal(t, TicketIdle, next.Step)
	require.Len(t, effects, 1)
	reject, ok := effects[0].(EffectReject)
	require.True(t, ok)
	assert.Equal(t, "Please wait 45s before opening another ticket.", reject.Content)
}

func TestTicketFlow_DuplicateRejection(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")
	threads := []platform.Thread{
		{ID: "t1", OwnerID: "bot-1", Name: "support-alice", Archived: false},
	}

	next, effects := flow.Next(openRequest(0, threads))

	assert.Equal(t, TicketIdle, next.Step)
	require.Len(t, effects, 1)
	reject, ok := effects[0].(EffectReject)
	require.True(t, ok)
	assert.Equal(t, "You already have an active ticket in this channel.", reject.Content)
}

func TestTicketFlow_ArchivedThreadIsNotDuplicate(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")
	threads := []platform.Thread{
		{ID: "t1", OwnerID: "bot-1", Name: "support-alice", Archived: true},
		{ID: "t2", OwnerID: "other", Name: "support-alice", Archived: false},
	}

	next, effects := flow.Next(openRequest(0, threads))

	assert.Equal(t, TicketRulesShown, next.Step)
	require.Len(t, effects, 1)
	_, ok := effects[0].(EffectShowRules)
	assert.True(t, ok)
}

func TestTicketFlow_AcceptMarksCooldownThenOpens(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")
	flow, _ = flow.Next(openRequest(0, nil))
	require.Equal(t, TicketRulesShown, flow.Step)

	next, effects := flow.Next(TicketRulesAccepted{})

	assert.Equal(t, TicketAccepted, next.Step)
	require.Len(t, effects, 2)
	mark, ok := effects[0].(EffectMarkCooldown)
	require.True(t, ok)
	assert.Equal(t, "user-1", mark.UserID)
	open, ok := effects[1].(EffectOpenTicket)
	require.True(t, ok)
	assert.Equal(t, "support-alice", open.ThreadName)
}

func TestTicketFlow_DeclineHasNoSideEffects(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")
	flow, _ = flow.Next(openRequest(0, nil))

	next, effects := flow.Next(TicketRulesDeclined{})

	assert.Equal(t, TicketCancelled, next.Step)
	require.Len(t, effects, 1)
	ack, ok := effects[0].(EffectAck)
	require.True(t, ok)
	assert.Equal(t, "Ticket creation canceled.", ack.Content)
}

func TestTicketFlow_AcceptOutOfOrderIsIgnored(t *testing.T) {
	flow := NewTicketFlow("user-1", "alice")

	next, effects := flow.Next(TicketRulesAccepted{})

	assert.Equal(t, TicketIdle, next.Step)
	assert.Empty(t, effects)
}

func TestDecodeTicketFlow_RoundTrip(t *testing.T) {
	flow := NewTicketFlow("42", "alice")
	flow, effects := flow.Next(openRequest(0, nil))
	rules := effects[0].(EffectShowRules)

	base, parts := DecodeID(rules.AcceptID)
	assert.Equal(t, ControlTicketRulesAccept, base)

	decoded, ok := DecodeTicketFlow(parts)
	require.True(t, ok)
	assert.Equal(t, flow.OpenerID, decoded.OpenerID)
	assert.Equal(t, flow.Username, decoded.Username)
	assert.Equal(t, TicketRulesShown, decoded.Step)
}

func TestCanCloseTicket(t *testing.T) {
	opener := "user-1"
	assert.True(t, CanCloseTicket("user-1", opener, platform.PermissionSet{}))
	assert.True(t, CanCloseTicket("mod-1", opener, platform.PermissionSet{ManageThreads: true}))
	assert.True(t, CanCloseTicket("mod-2", opener, platform.PermissionSet{ManageChannels: true}))
	assert.True(t, CanCloseTicket("mod-3", opener, platform.PermissionSet{Administrator: true}))
	assert.False(t, CanCloseTicket("user-2", opener, platform.PermissionSet{ManageMessages: true}))
}

func TestCanCancelTicket(t *testing.T) {
	assert.False(t, CanCancelTicket(platform.PermissionSet{}))
	assert.True(t, CanCancelTicket(platform.PermissionSet{Administrator: true}))
}
