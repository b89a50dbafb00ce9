package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	sqlDB, err := handler.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		handler.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Home is the authenticated landing point: today's date and where to edit it.
func (handler *Handler) Home(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect(loginRedirectPath(c.OriginalURL()), fiber.StatusSeeOther)
	}
	today := services.FormatEntryDate(handler.today())
	return c.JSON(fiber.Map{
		"user":  user,
		"today": today,
		"day":   "/api/days/" + today,
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
