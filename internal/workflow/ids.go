package workflow

import "strings"

// Control and form ids. Flow context (opener, category) rides inside the id
// after the first separator, so every step carries its accumulated state and
// survives a process restart without server-side session storage.
const (
	ControlFileReport = "file_report"
	ControlOpenTicket = "open_ticket"

	ControlReportCategory    = "report_category"
	ControlReportRulesAccept = "report_rules_accept"
	ControlReportRulesCancel = "report_rules_cancel"
	FormReport               = "report_form"
	FieldReportedUser        = "reported_user"
	FieldReportReason        = "reason"

	ControlTicketRulesAccept = "ticket_rules_accept"
	ControlTicketRulesCancel = "ticket_rules_cancel"
	ControlTicketClose       = "ticket_close"
	ControlTicketCancel      = "ticket_cancel"

	ControlReportBan     = "report_ban"
	ControlReportResolve = "report_resolve"

	ControlLockdown       = "lockdown_server"
	ControlBroadcast      = "broadcast_message"
	FormBroadcast         = "broadcast_form"
	FieldBroadcastChannel = "channel_name"
	FieldBroadcastMessage = "message_content"

	idSep = "|"
)

// EncodeID joins a control id with its context parts.
func EncodeID(id string, parts ...string) string {
	if len(parts) == 0 {
		return id
	}
	return id + idSep + strings.Join(parts, idSep)
}

// DecodeID splits a custom id into its base id and context parts.
func DecodeID(raw string) (string, []string) {
	segments := strings.Split(raw, idSep)
	return segments[0], segments[1:]
}
