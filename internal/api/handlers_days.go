package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/models"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

// GetDay returns the entry stored for the date, or a quick-fill candidate
// copied from the previous day.
func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseEntryDate(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	handler.ensureDependencies()
	view, err := handler.entryService.LoadDay(user.ID, day)
	if err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.JSON(view)
}

// SaveDay overwrites or creates the entry for the date, then checks the
// streak badge. A failed badge check does not fail the save.
func (handler *Handler) SaveDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseEntryDate(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Date = services.FormatEntryDate(day)

	handler.ensureDependencies()
	entry, created, err := handler.entryService.SaveForDate(user.ID, input, services.ResolveGoals(user))
	if err != nil {
		return handler.entryAPIError(c, err)
	}

	awarded, err := handler.badgeService.CheckStreakBadge(user, handler.today(), handler.location)
	if err != nil {
		handler.logger.Warn("streak badge check failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	if awarded {
		handler.logger.Info("badge awarded", zap.Uint("user_id", user.ID), zap.String("badge", models.BadgeSevenDayStreak))
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(saveDayResponse{
		Entry:        entry,
		Created:      created,
		BadgeAwarded: awarded,
	})
}
