package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AdminHandler exposes destructive and diagnostic operations.
type AdminHandler struct {
	service *service.TicketService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(ticketService *service.TicketService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{service: ticketService, metrics: metrics}
}

// ResetAll POST /admin/reset?confirm=true. Drops all tickets and restores
// the default desk configuration.
func (h *AdminHandler) ResetAll(c *fiber.Ctx) error {
	if !strings.EqualFold(c.Query("confirm"), "true") {
		return apperrors.NewConfirmationRequired("reset-all-data")
	}
	if err := h.service.ResetAll(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SelfCheck GET /admin/selfcheck runs the startup diagnostics on demand.
func (h *AdminHandler) SelfCheck(c *fiber.Ctx) error {
	results := service.RunSelfCheck()
	passed := true
	items := make([]fiber.Map, 0, len(results))
	for _, result := range results {
		passed = passed && result.Passed
		items = append(items, fiber.Map{
			"name":   result.Name,
			"passed": result.Passed,
			"detail": result.Detail,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"passed": passed, "checks": items}})
}

// Metrics GET /admin/metrics reports in-memory request counters.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"requests": requests,
		"errors":   errors,
	}})
}
