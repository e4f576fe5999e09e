package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
	"github.com/spec-kit/moderation-service/internal/service"
	"github.com/spec-kit/moderation-service/internal/workflow"
)

// Router dispatches control presses, select choices and form submissions
// to the owning workflow service, keyed on the custom id's base segment.
type Router struct {
	tickets  *service.TicketService
	reports  *service.ReportService
	executor *service.ReportExecutor
	admin    *service.AdminService
	logger   *zap.Logger
}

// NewRouter creates the router.
func NewRouter(tickets *service.TicketService, reports *service.ReportService, executor *service.ReportExecutor, admin *service.AdminService, logger *zap.Logger) *Router {
	return &Router{tickets: tickets, reports: reports, executor: executor, admin: admin, logger: logger}
}

// Dispatch routes one interaction. Unknown ids are acknowledged so the
// platform does not surface a spinner to the user.
func (r *Router) Dispatch(ctx context.Context, itx platform.Interaction) {
	base, parts := workflow.DecodeID(itx.CustomID())

	var err error
	switch base {
	case workflow.ControlOpenTicket:
		err = r.tickets.HandleOpen(ctx, itx)
	case workflow.ControlTicketRulesAccept:
		flow, ok := workflow.DecodeTicketFlow(parts)
		if !ok {
			err = itx.RespondEphemeral(ctx, "This ticket prompt has expired. Please start again.")
			break
		}
		err = r.tickets.HandleRulesAccepted(ctx, itx, flow)
	case workflow.ControlTicketRulesCancel:
		flow := workflow.TicketFlow{Step: workflow.TicketRulesShown}
		err = r.tickets.HandleRulesDeclined(ctx, itx, flow)
	case workflow.ControlTicketClose:
		openerID := ""
		if len(parts) > 0 {
			openerID = parts[0]
		}
		err = r.tickets.HandleClose(ctx, itx, openerID)
	case workflow.ControlTicketCancel:
		err = r.tickets.HandleCancelAdmin(ctx, itx)

	case workflow.ControlFileReport:
		err = r.reports.HandleStart(ctx, itx)
	case workflow.ControlReportCategory:
		err = r.reports.HandleCategoryChosen(ctx, itx)
	case workflow.ControlReportRulesAccept:
		flow, ok := workflow.DecodeReportFlow(parts)
		if !ok {
			err = itx.RespondEphemeral(ctx, "This report prompt has expired. Please start again.")
			break
		}
		err = r.reports.HandleRulesAccepted(ctx, itx, flow)
	case workflow.ControlReportRulesCancel:
		flow := workflow.ReportFlow{Step: workflow.ReportRulesShown}
		err = r.reports.HandleRulesDeclined(ctx, itx, flow)
	case workflow.FormReport:
		category := domain.ReportCategory("")
		if len(parts) > 0 && domain.ValidCategory(parts[0]) {
			category = domain.ReportCategory(parts[0])
		}
		err = r.reports.HandleSubmission(ctx, itx, category)

	case workflow.ControlReportResolve:
		err = r.executor.HandleResolve(ctx, itx, firstPart(parts))
	case workflow.ControlReportBan:
		err = r.executor.HandleBan(ctx, itx, firstPart(parts))

	case workflow.ControlLockdown:
		err = r.admin.HandleLockdown(ctx, itx)
	case workflow.ControlBroadcast:
		err = r.admin.HandleBroadcastStart(ctx, itx)
	case workflow.FormBroadcast:
		err = r.admin.HandleBroadcastSubmit(ctx, itx)

	default:
		r.logger.Debug("unrecognized interaction", zap.String("custom_id", itx.CustomID()))
		err = itx.Defer(ctx)
	}

	if err != nil {
		r.logger.Error("interaction dispatch failed",
			zap.String("custom_id", itx.CustomID()),
			zap.String("actor_id", itx.Actor().ID),
			zap.Error(err))
	}
}

func firstPart(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
