package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-service/internal/api/dto"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/service"
)

const reportsPageSize = 25

// ReportsHandler exposes the filed-report queue to the dashboard.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// List handles GET /reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", reportsPageSize)
	reports, err := h.reports.Recent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, reportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /reports/:report_id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	report, err := h.reports.Get(c.UserContext(), c.Params("report_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

func reportResponse(r *domain.Report) dto.ReportResponse {
	out := dto.ReportResponse{
		ID:           r.ID,
		ReporterID:   r.ReporterID,
		ReporterName: r.ReporterName,
		ReportedUser: r.ReportedUser,
		Reason:       r.Reason,
		Category:     string(r.Category),
		Handled:      r.Handled,
		CreatedAt:    r.CreatedAt,
	}
	if r.HandledBy != nil {
		out.HandledBy = *r.HandledBy
	}
	if r.Resolution != nil {
		out.Resolution = string(*r.Resolution)
	}
	return out
}
