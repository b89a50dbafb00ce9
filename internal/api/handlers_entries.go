package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
)

// ListEntries serves the list(sort, limit) contract, e.g. ?sort=-date&limit=100.
func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, valid := queryInt(c, "limit")
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	handler.ensureDependencies()
	entries, err := handler.entryService.List(user.ID, c.Query("sort"), limit)
	if err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	entry, err := handler.entryService.Get(user.ID, c.Params("id"))
	if err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	entry, err := handler.entryService.Create(user.ID, input, services.ResolveGoals(user))
	if err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	patch := services.EntryPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	entry, err := handler.entryService.Update(user.ID, c.Params("id"), patch, services.ResolveGoals(user))
	if err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	if err := handler.entryService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.entryAPIError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
