package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/login", handler.LoginInfo)
	app.Get("/", handler.AuthRequired, handler.Home)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	me := api.Group("/me", handler.AuthRequired)
	me.Get("", handler.GetMe)
	me.Patch("", handler.UpdateMe)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.CreateEntry)
	entries.Get("/:id", handler.GetEntry)
	entries.Patch("/:id", handler.UpdateEntry)
	entries.Delete("/:id", handler.DeleteEntry)

	days := api.Group("/days", handler.AuthRequired)
	days.Get("/:date", handler.GetDay)
	days.Put("/:date", handler.SaveDay)

	api.Get("/insights", handler.AuthRequired, handler.GetInsights)
	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)
	api.Get("/profile", handler.AuthRequired, handler.GetProfile)

	goals := api.Group("/goals", handler.AuthRequired)
	goals.Get("", handler.GetGoals)
	goals.Put("", handler.UpdateGoals)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/change-password", handler.ChangePassword)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
