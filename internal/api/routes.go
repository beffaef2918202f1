package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)

	// Catch-all must come last.
	app.Use(handler.ShowNotFound)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/auth", handler.ShowAuthPage)
	app.Get("/", handler.AuthRequired, handler.ShowCalendar)
	app.Get("/calendar", handler.AuthRequired, handler.ShowCalendar)
	app.Get("/calendar/day/:date", handler.AuthRequired, handler.CalendarDayPanel)
	app.Get("/data", handler.AuthRequired, handler.ShowData)
	app.Get("/dashboard", handler.AuthRequired, handler.ShowDashboard)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/change-password", handler.ChangePassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/delete-account", handler.AuthRequired, handler.DeleteAccount)
	auth.Get("/twitter/start", handler.TwitterStart)
	auth.Get("/twitter/callback", handler.TwitterCallback)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.CreateEntry)
	entries.Put("/:id", handler.UpdateEntry)
	entries.Delete("", handler.DeleteAllEntries)
	entries.Delete("/:id", handler.DeleteEntry)

	reports := api.Group("/reports", handler.AuthRequired)
	reports.Get("/monthly", handler.GetMonthlyReport)
	reports.Get("/breakdown", handler.GetCategoryBreakdown)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
