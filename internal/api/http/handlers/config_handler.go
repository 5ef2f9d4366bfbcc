package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// ConfigHandler exposes the desk configuration.
type ConfigHandler struct {
	service *service.TicketService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(ticketService *service.TicketService) *ConfigHandler {
	return &ConfigHandler{service: ticketService}
}

// GetConfig GET /config.
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.DeskConfig()})
}

// UpdateConfig PUT /config. The payload is normalized, never rejected for
// missing fields; the normalized result is returned.
func (h *ConfigHandler) UpdateConfig(c *fiber.Ctx) error {
	var req dto.UpdateDeskConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	normalized, err := h.service.UpdateDeskConfig(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": normalized})
}
