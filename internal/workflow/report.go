package workflow

import (
	"strings"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
)

// ReportStep tags the report flow's position.
type ReportStep string

const (
	ReportCategorySelect ReportStep = "category_select"
	ReportRulesShown     ReportStep = "rules_shown"
	ReportFormOpen       ReportStep = "form_open"
	ReportCancelled      ReportStep = "cancelled"
	ReportSubmitted      ReportStep = "submitted"
)

// ReportFlow carries the accumulated context of one report filing.
type ReportFlow struct {
	Step     ReportStep
	Category domain.ReportCategory
}

// ReportEvent drives a report flow transition.
type ReportEvent interface {
	isReportEvent()
}

// ReportStarted is the "File a Report" press.
type ReportStarted struct{}

// ReportCategoryChosen is the select-menu choice.
type ReportCategoryChosen struct {
	Category string
}

// ReportRulesAccepted is the "I Understand" press carrying the category.
type ReportRulesAccepted struct{}

// ReportRulesDeclined cancels the flow.
type ReportRulesDeclined struct{}

func (ReportStarted) isReportEvent()        {}
func (ReportCategoryChosen) isReportEvent() {}
func (ReportRulesAccepted) isReportEvent()  {}
func (ReportRulesDeclined) isReportEvent()  {}

// NewReportFlow starts at category selection.
func NewReportFlow() ReportFlow {
	return ReportFlow{Step: ReportCategorySelect}
}

// Next applies one event and returns the successor flow plus side effects.
func (f ReportFlow) Next(event ReportEvent) (ReportFlow, []Effect) {
	switch ev := event.(type) {
	case ReportStarted:
		f.Step = ReportCategorySelect
		options := make([]string, 0, len(domain.ReportCategories()))
		for _, c := range domain.ReportCategories() {
			options = append(options, string(c))
		}
		return f, []Effect{EffectShowCategorySelect{
			Content:  "Please select a category for your report.",
			SelectID: ControlReportCategory,
			Options:  options,
		}}

	case ReportCategoryChosen:
		if f.Step != ReportCategorySelect {
			return f, nil
		}
		if !domain.ValidCategory(ev.Category) {
			return f, []Effect{EffectReject{Content: "Please choose a valid report category."}}
		}
		f.Step = ReportRulesShown
		f.Category = domain.ReportCategory(ev.Category)
		return f, []Effect{EffectShowRules{
			Content:  RenderRules("Before filing a report, please review:", ReportRules),
			AcceptID: EncodeID(ControlReportRulesAccept, string(f.Category)),
			CancelID: ControlReportRulesCancel,
		}}

	case ReportRulesAccepted:
		if f.Step != ReportRulesShown {
			return f, nil
		}
		f.Step = ReportFormOpen
		return f, []Effect{EffectOpenReportForm{Category: f.Category}}

	case ReportRulesDeclined:
		if f.Step != ReportRulesShown {
			return f, nil
		}
		f.Step = ReportCancelled
		return f, []Effect{EffectAck{Content: "Report canceled."}}
	}
	return f, nil
}

// DecodeReportFlow rebuilds a rules-shown flow from an accept control id.
func DecodeReportFlow(parts []string) (ReportFlow, bool) {
	if len(parts) < 1 || !domain.ValidCategory(parts[0]) {
		return ReportFlow{}, false
	}
	return ReportFlow{Step: ReportRulesShown, Category: domain.ReportCategory(parts[0])}, true
}

// ReportForm is the modal opened after rules acceptance.
func ReportForm(category domain.ReportCategory) platform.Form {
	return platform.Form{
		ID:    EncodeID(FormReport, string(category)),
		Title: "File a Report",
		Fields: []platform.FormField{
			{ID: FieldReportedUser, Label: "Username to report", Required: true},
			{ID: FieldReportReason, Label: "Reason for the report", Paragraph: true, Required: true},
		},
	}
}

// ValidateSubmission checks the required form fields.
func ValidateSubmission(reportedUser, reason string) error {
	if strings.TrimSpace(reportedUser) == "" {
		return errMissingField("reported user")
	}
	if strings.TrimSpace(reason) == "" {
		return errMissingField("reason")
	}
	return nil
}

type missingFieldError struct{ field string }

func (e missingFieldError) Error() string { return "missing required field: " + e.field }

func errMissingField(field string) error { return missingFieldError{field: field} }

// ResolveReportedMember matches the free-text reported-user string against
// the guild roster, case-insensitively, on handle or display name. The first
// match wins; nil means the admin notice carries no action controls.
func ResolveReportedMember(reportedUser string, members []platform.Member) *platform.Member {
	needle := strings.ToLower(strings.TrimSpace(reportedUser))
	if needle == "" {
		return nil
	}
	for i := range members {
		m := &members[i]
		if strings.ToLower(m.Username) == needle ||
			strings.ToLower(m.DisplayName) == needle ||
			(m.Nick != "" && strings.ToLower(m.Nick) == needle) {
			return m
		}
	}
	return nil
}

const reportedIDFooterPrefix = "Reported User ID: "

// BuildReviewCard renders the admin-review notice. A resolved member embeds
// its numeric identity in the footer and attaches the two action controls;
// otherwise the card states that manual action is required.
func BuildReviewCard(report domain.Report, match *platform.Member) (platform.Card, []platform.Control) {
	card := platform.Card{
		Title: "🚨 New Report Filed",
		Color: platform.ColorOrange,
	}
	category := string(report.Category)
	if category == "" {
		category = "Not specified"
	}
	card = card.AddField("Category", category)
	card = card.AddField("Reported User", report.ReportedUser)
	card = card.AddField("Reason", report.Reason)

	if match == nil {
		card.Footer = "User not found automatically. Action must be manual."
		return card, nil
	}
	card.Footer = reportedIDFooterPrefix + match.ID
	return card, ReviewControls(report.ID)
}

// ReviewControls are the two admin actions on an escalated report. The
// report row id rides in the control ids so handling can stamp the row.
func ReviewControls(reportID string) []platform.Control {
	return []platform.Control{
		{ID: EncodeID(ControlReportBan, reportID), Label: "Ban User", Style: platform.StyleDanger},
		{ID: EncodeID(ControlReportResolve, reportID), Label: "Mark as Resolved", Style: platform.StyleSuccess},
	}
}
