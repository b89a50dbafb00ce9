package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

// GetInsights aggregates the window selected with ?window=7|14|30.
func (handler *Handler) GetInsights(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	handler.ensureDependencies()
	insights, err := handler.insightsService.Build(user, windowDays, handler.today(), handler.location)
	if err != nil {
		handler.logger.Error("build insights", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(insights)
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.today()
	monthStart, err := services.ParseCalendarMonth(c.Query("month"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	handler.ensureDependencies()
	month, err := handler.insightsService.CalendarMonth(user, monthStart, now, handler.location)
	if err != nil {
		handler.logger.Error("build calendar", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(month)
}
