package domain

import "time"

// ReportCategory enumerates the fixed report categories.
type ReportCategory string

const (
	CategoryHarassment    ReportCategory = "Harassment"
	CategorySpam          ReportCategory = "Spam"
	CategoryInappropriate ReportCategory = "Inappropriate Content"
	CategoryOther         ReportCategory = "Other"
)

// ReportCategories lists the selectable categories in display order.
func ReportCategories() []ReportCategory {
	return []ReportCategory{CategoryHarassment, CategorySpam, CategoryInappropriate, CategoryOther}
}

// ValidCategory reports whether the value is one of the fixed categories.
func ValidCategory(value string) bool {
	for _, c := range ReportCategories() {
		if string(c) == value {
			return true
		}
	}
	return false
}

// ReportResolution enumerates terminal actions a reviewer can take.
type ReportResolution string

const (
	ResolutionBanned   ReportResolution = "BANNED"
	ResolutionResolved ReportResolution = "RESOLVED"
)

// Report is a structured complaint about another user. Once handled it is
// immutable; the review controls are disabled after the first terminal action.
type Report struct {
	ID           string
	ReporterID   string
	ReporterName string
	ReportedUser string
	Reason       string
	Category     ReportCategory
	Handled      bool
	HandledBy    *string
	Resolution   *ReportResolution
	CreatedAt    time.Time
}
