package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	clock   service.Clock
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, clock service.Clock) *TicketsHandler {
	return &TicketsHandler{service: ticketService, clock: clock}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Requester:     req.Requester,
		ContactMethod: req.ContactMethod,
		ContactValue:  req.ContactValue,
		Category:      req.Category,
		Priority:      req.Priority,
	}
	ticket, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	view := h.service.Get(ticket.ID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(*view)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := repository.TicketFilter{
		Query:    c.Query("q"),
		Status:   c.Query("status", domain.FilterAll),
		Category: c.Query("category", domain.FilterAll),
		Team:     c.Query("team", domain.FilterAll),
		Priority: c.Query("priority", domain.FilterAll),
	}
	views := h.service.List(filter)
	items := make([]dto.TicketResponse, 0, len(views))
	for _, view := range views {
		items = append(items, ticketResponse(view))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	view := h.service.Get(c.Params("id"))
	if view == nil {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": ticketResponse(*view)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return apperrors.NewValidationError("unknown status", fiber.Map{"status": *req.Status})
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		return apperrors.NewValidationError("unknown priority", fiber.Map{"priority": *req.Priority})
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Team:        req.Team,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	if ticket == nil {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}
	view := h.service.Get(ticket.ID)
	return c.JSON(fiber.Map{"data": ticketResponse(*view)})
}

// DeleteTicket DELETE /tickets/:id?confirm=true.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if !confirmed(c) {
		return apperrors.NewConfirmationRequired("delete-ticket")
	}
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddNote POST /tickets/:id/notes.
func (h *TicketsHandler) AddNote(c *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	note, err := h.service.AddNote(c.UserContext(), c.Params("id"), req.Text, req.Author)
	if err != nil {
		return err
	}
	if note == nil {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": noteResponse(*note)})
}

// DeleteNote DELETE /tickets/:id/notes/:noteId.
func (h *TicketsHandler) DeleteNote(c *fiber.Ctx) error {
	if err := h.service.DeleteNote(c.UserContext(), c.Params("id"), c.Params("noteId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ExportTickets GET /tickets/export.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	views := h.service.List(repository.TicketFilter{})
	tickets := make([]domain.Ticket, 0, len(views))
	for _, view := range views {
		tickets = append(tickets, view.Ticket)
	}
	export := service.ExportTickets(tickets, h.clock())
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.SendString(export.Data)
}

func confirmed(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Query("confirm"), "true")
}

func ticketResponse(view service.TicketView) dto.TicketResponse {
	notes := make([]dto.NoteResponse, 0, len(view.Notes))
	for _, note := range view.Notes {
		notes = append(notes, noteResponse(note))
	}
	return dto.TicketResponse{
		ID:            view.ID,
		Title:         view.Title,
		Description:   view.Description,
		Requester:     view.Requester,
		ContactMethod: view.ContactMethod,
		ContactValue:  view.ContactValue,
		Category:      view.Category,
		Team:          view.Team,
		Status:        view.Status,
		Priority:      view.Priority,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
		RespondDue:    view.Deadlines.RespondDue,
		ResolveDue:    view.Deadlines.ResolveDue,
		Notes:         notes,
	}
}

func noteResponse(note domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        note.ID,
		Text:      note.Text,
		Author:    note.Author,
		CreatedAt: note.CreatedAt,
	}
}
