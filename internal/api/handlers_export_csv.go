package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	handler.ensureDependencies()
	result, err := handler.exportService.ExportWindowCSV(user.ID, windowDays, handler.today(), handler.location)
	if err != nil {
		handler.logger.Error("export csv", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}

	setAttachmentHeaders(c, "text/csv; charset=utf-8", result.Filename)
	c.Set("X-Export-Rows", strconv.Itoa(result.Summary.TotalEntries))
	return c.Send(result.Content)
}

// ExportSummary previews what ExportCSV would contain for the same window.
func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	handler.ensureDependencies()
	result, err := handler.exportService.ExportWindowCSV(user.ID, windowDays, handler.today(), handler.location)
	if err != nil {
		handler.logger.Error("export summary", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}
	return c.JSON(fiber.Map{
		"filename": result.Filename,
		"summary":  result.Summary,
	})
}
