package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Config  *handlers.ConfigHandler
	Admin   *handlers.AdminHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/export", cfg.Tickets.ExportTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/notes", cfg.Tickets.AddNote)
	tickets.Delete("/:id/notes/:noteId", cfg.Tickets.DeleteNote)

	app.Get("/config", cfg.Config.GetConfig)
	app.Put("/config", cfg.Config.UpdateConfig)

	admin := app.Group("/admin")
	admin.Post("/reset", cfg.Admin.ResetAll)
	admin.Get("/selfcheck", cfg.Admin.SelfCheck)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
