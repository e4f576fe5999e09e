package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
)

func TestReportFlow_HappyPath(t *testing.T) {
	flow := NewReportFlow()

	flow, effects := flow.Next(ReportStarted{})
	require.Len(t, effects, 1)
	sel := effects[0].(EffectShowCategorySelect)
	assert.Equal(t, []string{"Harassment", "Spam", "Inappropriate Content", "Other"}, sel.Options)

	flow, effects = flow.Next(ReportCategoryChosen{Category: "Spam"})
	assert.Equal(t, ReportRulesShown, flow.Step)
	assert.Equal(t, domain.CategorySpam, flow.Category)
	require.Len(t, effects, 1)
	rules := effects[0].(EffectShowRules)
	assert.Equal(t, EncodeID(ControlReportRulesAccept, "Spam"), rules.AcceptID)

	flow, effects = flow.Next(ReportRulesAccepted{})
	assert.Equal(t, ReportFormOpen, flow.Step)
	require.Len(t, effects, 1)
	form := effects[0].(EffectOpenReportForm)
	assert.Equal(t, domain.CategorySpam, form.Category)
}

func TestReportFlow_InvalidCategoryRejected(t *testing.T) {
	flow := NewReportFlow()
	flow, _ = flow.Next(ReportStarted{})

	next, effects := flow.Next(ReportCategoryChosen{Category: "Nonsense"})

	assert.Equal(t, ReportCategorySelect, next.Step)
	require.Len(t, effects, 1)
	_, ok := effects[0].(EffectReject)
	assert.True(t, ok)
}

func TestReportFlow_Decline(t *testing.T) {
	flow := NewReportFlow()
	flow, _ = flow.Next(ReportStarted{})
	flow, _ = flow.Next(ReportCategoryChosen{Category: "Other"})

	next, effects := flow.Next(ReportRulesDeclined{})

	assert.Equal(t, ReportCancelled, next.Step)
	require.Len(t, effects, 1)
	ack := effects[0].(EffectAck)
	assert.Equal(t, "Report canceled.", ack.Content)
}

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, ValidateSubmission("bob", "flooding"))
	assert.Error(t, ValidateSubmission("", "flooding"))
	assert.Error(t, ValidateSubmission("bob", "   "))
}

func TestResolveReportedMember(t *testing.T) {
	members := []platform.Member{
		{ID: "1", Username: "alice", DisplayName: "Alice A"},
		{ID: "2", Username: "bob", DisplayName: "Bobby", Nick: "bobcat"},
	}

	match := ResolveReportedMember("BOB", members)
	require.NotNil(t, match)
	assert.Equal(t, "2", match.ID)

	match = ResolveReportedMember("bobcat", members)
	require.NotNil(t, match)
	assert.Equal(t, "2", match.ID)

	assert.Nil(t, ResolveReportedMember("charlie", members))
	assert.Nil(t, ResolveReportedMember("  ", members))
}

func TestBuildReviewCard_WithMatch(t *testing.T) {
	report := domain.Report{
		ID:           "rep-1",
		Category:     domain.CategorySpam,
		ReportedUser: "bob",
		Reason:       "flooding",
	}
	match := &platform.Member{ID: "200", Username: "bob"}

	card, controls := BuildReviewCard(report, match)

	assert.Equal(t, "Reported User ID: 200", card.Footer)
	require.Len(t, controls, 2)
	assert.Equal(t, EncodeID(ControlReportBan, "rep-1"), controls[0].ID)
	assert.Equal(t, EncodeID(ControlReportResolve, "rep-1"), controls[1].ID)
}

func TestBuildReviewCard_NoMatch(t *testing.T) {
	report := domain.Report{Category: domain.CategoryOther, ReportedUser: "ghost", Reason: "spam"}

	card, controls := BuildReviewCard(report, nil)

	assert.Empty(t, controls)
	assert.Equal(t, "User not found automatically. Action must be manual.", card.Footer)
}
