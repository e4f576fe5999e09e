package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/cooldown"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/logsink"
	"github.com/spec-kit/moderation-service/internal/observability"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/timer"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

type ticketFixture struct {
	client    *fakeClient
	cooldowns cooldown.Tracker
	timers    *timer.Registry
	service   *TicketService
}

func newTicketFixture(t *testing.T, inactivity time.Duration) *ticketFixture {
	t.Helper()
	client := newFakeClient()
	client.channels = []platform.Channel{
		{ID: "log-chan", Name: "ticket-logs", Type: platform.ChannelText},
	}
	cooldowns := cooldown.NewMemoryTracker(120 * time.Second)
	timers := timer.NewRegistry(inactivity, zap.NewNop())
	t.Cleanup(timers.Shutdown)

	sink := logsink.NewSink(client, staticSettings{}, observability.NewMetrics(), zap.NewNop(), "ticket-logs")
	svc := NewTicketService(client, cooldowns, timers, sink, events.NewInMemoryDispatcher(), zap.NewNop(),
		120*time.Second, inactivity)
	return &ticketFixture{client: client, cooldowns: cooldowns, timers: timers, service: svc}
}

func openerInteraction() *fakeInteraction {
	return &fakeInteraction{
		guildID:   "guild-1",
		channelID: "chan-1",
		actor:     platform.Member{ID: "user-1", Username: "alice"},
	}
}

func TestHandleOpenShowsRules(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()

	require.NoError(t, fx.service.HandleOpen(context.Background(), itx))

	require.Len(t, itx.responses, 1)
	assert.Contains(t, itx.responses[0], "Before opening a ticket")
	assert.Contains(t, itx.responses[0], "cooldown: 120s")
	require.Len(t, itx.controlSets, 1)
	assert.Equal(t, workflow.EncodeID(workflow.ControlTicketRulesAccept, "user-1", "alice"), itx.controlSets[0][0].ID)
	assert.Empty(t, fx.client.createdThreads)
}

func TestHandleOpenDeniedDuringCooldown(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	require.NoError(t, fx.cooldowns.Mark(context.Background(), "user-1", time.Now().Add(-30*time.Second)))

	itx := openerInteraction()
	require.NoError(t, fx.service.HandleOpen(context.Background(), itx))

	require.Len(t, itx.responses, 1)
	assert.Contains(t, itx.responses[0], "Please wait")
	assert.Contains(t, itx.responses[0], "before opening another ticket")
	assert.Empty(t, itx.controlSets)
}

func TestHandleOpenDeniedWithActiveTicket(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	fx.client.threads = []platform.Thread{
		{ID: "thread-old", OwnerID: "bot-1", Name: "support-alice"},
	}

	itx := openerInteraction()
	require.NoError(t, fx.service.HandleOpen(context.Background(), itx))

	require.Len(t, itx.responses, 1)
	assert.Equal(t, "You already have an active ticket in this channel.", itx.responses[0])
}

func TestAcceptCreatesThreadMarksCooldownAndArmsTimer(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	flow := workflow.TicketFlow{Step: workflow.TicketRulesShown, OpenerID: "user-1", Username: "alice"}

	require.NoError(t, fx.service.HandleRulesAccepted(context.Background(), itx, flow))

	require.Len(t, fx.client.createdThreads, 1)
	assert.Equal(t, "support-alice", fx.client.createdThreads[0].Name)

	remaining, err := fx.cooldowns.Check(context.Background(), "user-1", time.Now())
	require.NoError(t, err)
	assert.Greater(t, remaining, time.Duration(0))

	assert.Equal(t, 1, fx.timers.Len())

	// Greeting with close/cancel controls lands inside the thread.
	require.NotEmpty(t, fx.client.messages)
	greeting := fx.client.messages[0]
	assert.Equal(t, "thread-support-alice", greeting.channelID)
	assert.Contains(t, greeting.content, "how can the admin team assist you")
	require.Len(t, greeting.controls, 2)
	assert.Equal(t, workflow.EncodeID(workflow.ControlTicketClose, "user-1"), greeting.controls[0].ID)

	require.NotEmpty(t, itx.responses)
	assert.Contains(t, itx.responses[0], "A private support ticket has been created for you")
}

func TestDeclineNeverMarksCooldown(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	flow := workflow.TicketFlow{Step: workflow.TicketRulesShown, OpenerID: "user-1", Username: "alice"}

	require.NoError(t, fx.service.HandleRulesDeclined(context.Background(), itx, flow))

	remaining, err := fx.cooldowns.Check(context.Background(), "user-1", time.Now())
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.Equal(t, []string{"Ticket creation canceled."}, itx.responses)
	assert.Empty(t, fx.client.createdThreads)
}

func TestCloseByOpener(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	itx.thread = &platform.Thread{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"}
	fx.timers.Schedule("thread-1", func() {})

	require.NoError(t, fx.service.HandleClose(context.Background(), itx, "user-1"))

	assert.True(t, fx.client.isArchived("thread-1"))
	assert.Equal(t, 0, fx.timers.Len())
	assert.Equal(t, []string{"✅ Ticket closed."}, itx.responses)
	logs := fx.client.loggedMessages("log-chan")
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "closed by <@user-1>")
}

func TestCloseDeniedForStranger(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	itx.actor = platform.Member{ID: "user-2", Username: "mallory"}
	itx.thread = &platform.Thread{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"}

	require.NoError(t, fx.service.HandleClose(context.Background(), itx, "user-1"))

	assert.False(t, fx.client.isArchived("thread-1"))
	require.Len(t, itx.responses, 1)
	assert.Contains(t, itx.responses[0], "don't have permission")
}

func TestCloseAllowedForThreadManager(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	itx.actor = platform.Member{ID: "mod-1", Username: "mod", Permissions: platform.PermissionSet{ManageThreads: true}}
	itx.thread = &platform.Thread{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"}

	require.NoError(t, fx.service.HandleClose(context.Background(), itx, "user-1"))

	assert.True(t, fx.client.isArchived("thread-1"))
}

func TestCloseOutsideThreadRejected(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()

	require.NoError(t, fx.service.HandleClose(context.Background(), itx, "user-1"))

	require.Len(t, itx.responses, 1)
	assert.Contains(t, itx.responses[0], "inside a ticket thread")
}

func TestCancelAdminDeletesThread(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	itx.actor = platform.Member{ID: "mod-1", Username: "mod", Permissions: platform.PermissionSet{Administrator: true}}
	itx.thread = &platform.Thread{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"}
	fx.timers.Schedule("thread-1", func() {})

	require.NoError(t, fx.service.HandleCancelAdmin(context.Background(), itx))

	assert.True(t, itx.deferred)
	assert.Equal(t, []string{"thread-1"}, fx.client.deleted)
	assert.Equal(t, 0, fx.timers.Len())
	assert.Equal(t, []string{"🗑️ Ticket thread deleted."}, itx.followups)
	logs := fx.client.loggedMessages("log-chan")
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "cancelled by <@mod-1>")
}

func TestCancelAdminDeniedWithoutManagement(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	itx := openerInteraction()
	itx.thread = &platform.Thread{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"}

	require.NoError(t, fx.service.HandleCancelAdmin(context.Background(), itx))

	assert.Empty(t, fx.client.deleted)
	require.Len(t, itx.responses, 1)
	assert.Contains(t, itx.responses[0], "don't have permission")
}

func TestInactivityExpiryArchivesAndLogs(t *testing.T) {
	fx := newTicketFixture(t, 20*time.Millisecond)
	fx.client.threads = []platform.Thread{
		{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1"},
	}

	fx.service.ResetTimer("guild-1", fx.client.threads[0])

	assert.Eventually(t, func() bool {
		return fx.client.isArchived("thread-1")
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		logs := fx.client.loggedMessages("log-chan")
		return len(logs) == 1
	}, time.Second, 5*time.Millisecond)
	logs := fx.client.loggedMessages("log-chan")
	assert.Contains(t, logs[0], "auto-closed after 0 minutes of inactivity")
	assert.Equal(t, 0, fx.timers.Len())
}

func TestResetTimerIgnoresForeignThreads(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)

	fx.service.ResetTimer("guild-1", platform.Thread{ID: "thread-x", OwnerID: "someone-else"})
	assert.Equal(t, 0, fx.timers.Len())

	fx.service.ResetTimer("guild-1", platform.Thread{ID: "thread-y", OwnerID: "bot-1", Archived: true})
	assert.Equal(t, 0, fx.timers.Len())
}

func TestExpirySkipsAlreadyArchivedThread(t *testing.T) {
	fx := newTicketFixture(t, time.Hour)
	fx.client.threads = []platform.Thread{
		{ID: "thread-1", Name: "support-alice", OwnerID: "bot-1", Archived: true},
	}

	fx.service.expire(context.Background(), "guild-1", "thread-1", "support-alice")

	assert.Empty(t, fx.client.loggedMessages("log-chan"))
}

func TestTicketEventsPublished(t *testing.T) {
	client := newFakeClient()
	client.channels = []platform.Channel{{ID: "log-chan", Name: "ticket-logs"}}
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	for _, typ := range events.AllTypes() {
		typ := typ
		dispatcher.Subscribe(typ, func(ctx context.Context, e events.Event) error {
			seen = append(seen, e.Type)
			return nil
		})
	}

	timers := timer.NewRegistry(time.Hour, zap.NewNop())
	t.Cleanup(timers.Shutdown)
	sink := logsink.NewSink(client, staticSettings{settings: domain.Settings{}}, observability.NewMetrics(), zap.NewNop(), "ticket-logs")
	svc := NewTicketService(client, cooldown.NewMemoryTracker(time.Minute), timers, sink, dispatcher, zap.NewNop(), time.Minute, time.Hour)

	itx := openerInteraction()
	flow := workflow.TicketFlow{Step: workflow.TicketRulesShown, OpenerID: "user-1", Username: "alice"}
	require.NoError(t, svc.HandleRulesAccepted(context.Background(), itx, flow))

	require.Contains(t, seen, events.EventTicketOpened)
}
