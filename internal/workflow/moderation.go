package workflow

import (
	"errors"
	"regexp"
	"strings"

	"github.com/spec-kit/moderation-service/internal/platform"
)

// ErrNoReportedID means the review card footer carried no extractable
// numeric identity.
var ErrNoReportedID = errors.New("no reported user id in review card")

// BanAuditReason is the fixed audit reason applied on a review-card ban.
const BanAuditReason = "Banned following a report filed by an admin."

var reportedIDPattern = regexp.MustCompile(`ID:\s*(\d+)\)?\s*$`)

// ExtractReportedID pulls the reported member's numeric identity out of a
// review-card footer. The footer format is "...ID: <digits>" with an optional
// trailing ")".
func ExtractReportedID(footer string) (string, error) {
	match := reportedIDPattern.FindStringSubmatch(strings.TrimSpace(footer))
	if match == nil {
		return "", ErrNoReportedID
	}
	return match[1], nil
}

const handledTitlePrefix = "🚨 Report Handled: "

// HandledCard mutates a review card into its terminal form: grey, retitled
// with the action, stamped with the handling moderator.
func HandledCard(card platform.Card, action, moderator string) platform.Card {
	card.Color = platform.ColorGrey
	card.Title = handledTitlePrefix + strings.ToUpper(action)
	card = card.AddField("Handled By", moderator)
	return card
}

// CardHandled reports whether a review card already reached a terminal state.
// Controls are disabled on handling, so a second press is a no-op.
func CardHandled(card platform.Card) bool {
	return strings.HasPrefix(card.Title, handledTitlePrefix)
}
