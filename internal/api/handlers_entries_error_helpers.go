package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) entryAPIError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		handler.logger.Info("entry not found", zap.String("path", c.Path()))
		return apiError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, services.ErrInvalidEntryDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrInvalidEntryValue):
		return apiError(c, fiber.StatusBadRequest, "invalid entry value")
	case errors.Is(err, services.ErrInvalidSortSpec):
		return apiError(c, fiber.StatusBadRequest, "invalid sort")
	case errors.Is(err, services.ErrInvalidListLimit):
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	case errors.Is(err, services.ErrEntryLoadFailed):
		return handler.entryStorageError(c, err, "failed to load entries")
	case errors.Is(err, services.ErrEntryCreateFailed):
		return handler.entryStorageError(c, err, "failed to create entry")
	case errors.Is(err, services.ErrEntryUpdateFailed):
		return handler.entryStorageError(c, err, "failed to update entry")
	case errors.Is(err, services.ErrEntryDeleteFailed):
		return handler.entryStorageError(c, err, "failed to delete entry")
	default:
		return handler.entryStorageError(c, err, "failed to process entry")
	}
}

func (handler *Handler) entryStorageError(c *fiber.Ctx, err error, message string) error {
	handler.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return apiError(c, fiber.StatusInternalServerError, message)
}
