package handler

import (
	"foodstack-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSummary totals orders in an inclusive date range
// Query params: start, end (dd/mm/yyyy)
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summarize(c.UserContext(), c.Query("start"), c.Query("end"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}
