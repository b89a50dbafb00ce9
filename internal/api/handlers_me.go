package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) GetMe(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	me, err := handler.profileService.Me(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	return c.JSON(me)
}

// UpdateMe applies a partial update of the display name and goals.
func (handler *Handler) UpdateMe(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	update := services.ProfileUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	updated, err := handler.profileService.UpdateMyUserData(user.ID, update)
	if err != nil {
		return handler.profileUpdateError(c, err)
	}
	return c.JSON(updated)
}

func (handler *Handler) GetGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(services.ResolveGoals(user))
}

func (handler *Handler) UpdateGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := goalsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal")
	}
	update := services.ProfileUpdate{
		SleepGoal:    input.SleepGoal,
		WaterGoal:    input.WaterGoal,
		StepsGoal:    input.StepsGoal,
		ExerciseGoal: input.ExerciseGoal,
	}

	handler.ensureDependencies()
	updated, err := handler.profileService.UpdateMyUserData(user.ID, update)
	if err != nil {
		return handler.profileUpdateError(c, err)
	}
	return c.JSON(services.ResolveGoals(&updated))
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	summary, err := handler.profileService.Summary(user.ID)
	if err != nil {
		handler.logger.Error("load profile summary", zap.Uint("user_id", user.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(summary)
}

func (handler *Handler) profileUpdateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidGoal):
		return apiError(c, fiber.StatusBadRequest, "invalid goal")
	case errors.Is(err, services.ErrDisplayNameTooLong):
		return apiError(c, fiber.StatusBadRequest, "display name too long")
	default:
		handler.logger.Error("update profile", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
	}
}
