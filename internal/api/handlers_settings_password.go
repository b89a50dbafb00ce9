package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid settings input")
	}

	handler.ensureDependencies()
	err := handler.authService.ChangePassword(user, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if err != nil {
		status, message := changePasswordErrorStatus(err)
		if status == fiber.StatusInternalServerError {
			handler.logger.Error("change password", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		return apiError(c, status, message)
	}

	if _, err := handler.setAuthCookie(c, user, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func changePasswordErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPasswordChangeInvalidInput):
		return fiber.StatusBadRequest, "invalid settings input"
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.StatusBadRequest, "password mismatch"
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		return fiber.StatusUnauthorized, "invalid current password"
	case errors.Is(err, services.ErrNewPasswordMustDiffer):
		return fiber.StatusBadRequest, "new password must differ"
	case errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest, "weak password"
	default:
		return fiber.StatusInternalServerError, "failed to update password"
	}
}
