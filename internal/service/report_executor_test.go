package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

type executorFixture struct {
	client     *fakeClient
	reports    *fakeReportRepo
	moderation *fakeModerationRepo
	executor   *ReportExecutor
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()
	client := newFakeClient()
	client.members = []platform.Member{
		{ID: "user-2", Username: "bob"},
	}
	reports := &fakeReportRepo{}
	moderation := &fakeModerationRepo{}
	executor := NewReportExecutor(client, reports, moderation, events.NewInMemoryDispatcher(), zap.NewNop())
	return &executorFixture{client: client, reports: reports, moderation: moderation, executor: executor}
}

func reviewInteraction(footer string) *fakeInteraction {
	card := platform.Card{
		Title:  "🚨 New Report Filed",
		Color:  platform.ColorOrange,
		Footer: footer,
	}
	return &fakeInteraction{
		guildID: "guild-1",
		actor:   platform.Member{ID: "mod-1", Username: "mod", Permissions: platform.PermissionSet{Administrator: true}},
		card:    &card,
	}
}

func TestResolveStampsCardAndReport(t *testing.T) {
	fx := newExecutorFixture(t)
	itx := reviewInteraction("Reported User ID: user-2")

	require.NoError(t, fx.executor.HandleResolve(context.Background(), itx, "report-1"))

	require.Len(t, itx.editedCards, 1)
	edited := itx.editedCards[0]
	assert.Equal(t, "🚨 Report Handled: RESOLVED", edited.Title)
	assert.Equal(t, platform.ColorGrey, edited.Color)
	require.NotEmpty(t, edited.Fields)
	assert.Equal(t, "Handled By", edited.Fields[len(edited.Fields)-1].Name)
	for _, control := range itx.editedControls[0] {
		assert.True(t, control.Disabled)
	}

	assert.Equal(t, []string{"Report has been marked as 'Resolved'."}, itx.responses)
	assert.Equal(t, []string{"report-1:RESOLVED"}, fx.reports.handled)
	assert.Empty(t, fx.client.banned)
}

func TestResolveSecondPressIsNoop(t *testing.T) {
	fx := newExecutorFixture(t)
	itx := reviewInteraction("Reported User ID: user-2")
	itx.card.Title = "🚨 Report Handled: RESOLVED"

	require.NoError(t, fx.executor.HandleResolve(context.Background(), itx, "report-1"))

	assert.Empty(t, itx.editedCards)
	assert.Equal(t, []string{"This report has already been handled."}, itx.responses)
	assert.Empty(t, fx.reports.handled)
}

func TestBanExtractsFooterAndBans(t *testing.T) {
	fx := newExecutorFixture(t)
	fx.client.members = []platform.Member{{ID: "123456", Username: "bob"}}
	itx := reviewInteraction("Reported User ID: 123456")

	require.NoError(t, fx.executor.HandleBan(context.Background(), itx, "report-1"))

	assert.Equal(t, []string{"123456"}, fx.client.banned)
	require.Len(t, fx.moderation.bans, 1)
	assert.Equal(t, workflow.BanAuditReason, fx.moderation.bans[0].Reason)

	require.Len(t, itx.editedCards, 1)
	assert.Equal(t, "🚨 Report Handled: BANNED", itx.editedCards[0].Title)
	assert.Equal(t, []string{"report-1:BANNED"}, fx.reports.handled)
}

func TestBanAcceptsParenthesizedFooter(t *testing.T) {
	fx := newExecutorFixture(t)
	fx.client.members = []platform.Member{{ID: "123456", Username: "bob"}}
	itx := reviewInteraction("(Reported User ID: 123456)")

	require.NoError(t, fx.executor.HandleBan(context.Background(), itx, "report-1"))

	assert.Equal(t, []string{"123456"}, fx.client.banned)
}

func TestBanWithoutExtractableIDLeavesCardLive(t *testing.T) {
	fx := newExecutorFixture(t)
	itx := reviewInteraction("User not found automatically. Action must be manual.")

	require.NoError(t, fx.executor.HandleBan(context.Background(), itx, "report-1"))

	assert.Equal(t, []string{"Error: Could not extract a valid User ID from the report."}, itx.responses)
	assert.Empty(t, itx.editedCards)
	assert.Empty(t, fx.client.banned)
	assert.Empty(t, fx.reports.handled)
}

func TestBanUnknownMemberLeavesCardLive(t *testing.T) {
	fx := newExecutorFixture(t)
	fx.client.members = nil
	itx := reviewInteraction("Reported User ID: 999")

	require.NoError(t, fx.executor.HandleBan(context.Background(), itx, "report-1"))

	assert.Equal(t, []string{"Could not find this user in the server."}, itx.responses)
	assert.Empty(t, itx.editedCards)
	assert.Empty(t, fx.client.banned)
}

func TestBanForbiddenLeavesCardLive(t *testing.T) {
	fx := newExecutorFixture(t)
	fx.client.members = []platform.Member{{ID: "123", Username: "bob"}}
	fx.client.banErr = platform.ErrForbidden
	itx := reviewInteraction("Reported User ID: 123")

	require.NoError(t, fx.executor.HandleBan(context.Background(), itx, "report-1"))

	assert.Equal(t, []string{"Error: I don't have permission to ban this user."}, itx.responses)
	assert.Empty(t, itx.editedCards)
	assert.Empty(t, fx.reports.handled)
}

func TestHandlingWithoutSourceCardRejected(t *testing.T) {
	fx := newExecutorFixture(t)
	itx := &fakeInteraction{guildID: "guild-1", actor: platform.Member{ID: "mod-1"}}

	require.NoError(t, fx.executor.HandleResolve(context.Background(), itx, "report-1"))
	assert.Equal(t, []string{"This control is not attached to a report."}, itx.responses)
}

func TestResolvePublishesHandledEvent(t *testing.T) {
	client := newFakeClient()
	dispatcher := events.NewInMemoryDispatcher()
	var payloads []events.ReportPayload
	dispatcher.Subscribe(events.EventReportHandled, func(ctx context.Context, e events.Event) error {
		if p, ok := e.Payload.(events.ReportPayload); ok {
			payloads = append(payloads, p)
		}
		return nil
	})
	executor := NewReportExecutor(client, &fakeReportRepo{}, &fakeModerationRepo{}, dispatcher, zap.NewNop())

	itx := reviewInteraction("Reported User ID: user-2")
	require.NoError(t, executor.HandleResolve(context.Background(), itx, "report-7"))

	require.Len(t, payloads, 1)
	assert.Equal(t, "report-7", payloads[0].ReportID)
	assert.Equal(t, domain.ResolutionResolved, payloads[0].Resolution)
}
