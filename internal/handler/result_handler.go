package handler

import (
	"quiz-admin/internal/dto"
	"quiz-admin/internal/middleware"
	"quiz-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ResultHandler struct {
	results   service.ResultService
	analytics service.AnalyticsService
}

func NewResultHandler(results service.ResultService, analytics service.AnalyticsService) *ResultHandler {
	return &ResultHandler{results: results, analytics: analytics}
}

// ListResults godoc
// @Summary List recorded attempts
// @Tags admin-results
// @Security ApiKeyAuth
// @Produce json
// @Param user query string false "User email contains"
// @Param quiz query string false "Exam name contains"
// @Param date query string false "Day, YYYY-MM-DD"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.ResultListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/results [get]
func (h *ResultHandler) ListResults(c *fiber.Ctx) error {
	var filters dto.ResultFilters
	if err := c.QueryParser(&filters); err != nil {
		return err
	}
	resp, err := h.results.ListResults(c.UserContext(), filters, middleware.PageFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteResult godoc
// @Summary Delete an attempt
// @Tags admin-results
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/results/{id} [delete]
func (h *ResultHandler) DeleteResult(c *fiber.Ctx) error {
	if err := h.results.DeleteAttempt(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportResults godoc
// @Summary Download results as a spreadsheet
// @Tags admin-results
// @Security ApiKeyAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /admin/results/export [get]
func (h *ResultHandler) ExportResults(c *fiber.Ctx) error {
	data, err := h.results.ExportResults(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(service.ExportFileName)
	c.Set(fiber.HeaderContentType, service.ExportContentType)
	return c.Send(data)
}

// Analytics godoc
// @Summary Dashboard totals
// @Tags admin-results
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.AnalyticsResponse
// @Router /admin/analytics [get]
func (h *ResultHandler) Analytics(c *fiber.Ctx) error {
	resp, err := h.analytics.GetAnalytics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
