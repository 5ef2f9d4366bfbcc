package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/sla"
	"github.com/spec-kit/support-desk/internal/ticketid"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// Clock supplies the current time; tests substitute a fixed one.
type Clock func() time.Time

// Confirmer is the yes/no gate consulted before destructive operations.
// Declining performs no state change.
type Confirmer interface {
	Confirm(action, subject string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(action, subject string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(action, subject string) bool {
	return f(action, subject)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	deskConfig repository.DeskConfigRepository
	seq        *ticketid.Sequence
	gate       Confirmer
	dispatcher events.Dispatcher
	now        Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	DeskConfigRepo repository.DeskConfigRepository
	Sequence       *ticketid.Sequence
	Gate           Confirmer
	Dispatcher     events.Dispatcher
	Now            Clock
}

// TicketCreateInput describes a self-service submission.
type TicketCreateInput struct {
	Title         string
	Description   string
	Requester     string
	ContactMethod domain.ContactMethod
	ContactValue  string
	Category      string
	Priority      domain.TicketPriority
}

// TicketUpdateInput describes a partial administrative update. Nil fields
// are left untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Team        *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// TicketView pairs a ticket with its computed SLA deadlines.
type TicketView struct {
	domain.Ticket
	Deadlines sla.Deadlines
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		deskConfig: deps.DeskConfigRepo,
		seq:        deps.Sequence,
		gate:       deps.Gate,
		dispatcher: deps.Dispatcher,
		now:        deps.Now,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var nonDigits = regexp.MustCompile(`\D`)

// Create validates a submission and, on success, prepends the new ticket to
// the collection. On validation failure the ordered violation list is
// returned as a single error and nothing is mutated.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if violations := validateSubmission(input); len(violations) > 0 {
		return nil, apperrors.NewValidationFailure(violations)
	}

	cfg := s.deskConfig.Get()
	now := s.now()

	ticket := domain.Ticket{
		ID:            ticketid.Format(s.seq.Next(), now),
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Requester:     strings.TrimSpace(input.Requester),
		ContactMethod: input.ContactMethod,
		ContactValue:  strings.TrimSpace(input.ContactValue),
		Category:      strings.TrimSpace(input.Category),
		Team:          domain.TeamUnassigned,
		Status:        domain.TicketStatusOpen,
		Priority:      input.Priority,
		CreatedAt:     now,
		UpdatedAt:     now,
		Notes:         []domain.Note{},
	}
	if ticket.Category == "" {
		ticket.Category = cfg.Categories[0]
	}
	if !domain.ValidPriority(ticket.Priority) {
		ticket.Priority = domain.DefaultPriority
	}

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Team:     ticket.Team,
			Priority: ticket.Priority,
		},
	})
	return &ticket, nil
}

// validateSubmission returns the ordered list of human-readable violations.
func validateSubmission(input TicketCreateInput) []string {
	var violations []string
	if strings.TrimSpace(input.Title) == "" {
		violations = append(violations, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		violations = append(violations, "description is required")
	}
	if strings.TrimSpace(input.Requester) == "" {
		violations = append(violations, "requester name is required")
	}
	contact := strings.TrimSpace(input.ContactValue)
	switch {
	case contact == "":
		violations = append(violations, "contact value is required")
	case input.ContactMethod == domain.ContactMethodPhone:
		if len(nonDigits.ReplaceAllString(contact, "")) < 10 {
			violations = append(violations, "phone number must contain at least 10 digits")
		}
	default:
		if !emailPattern.MatchString(contact) {
			violations = append(violations, "email address is not valid")
		}
	}
	return violations
}

// Update merges partial changes into the matching ticket and stamps its
// update time. An unknown id is a no-op returning a nil ticket.
func (s *TicketService) Update(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	var fields []string
	updated, found, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) {
		if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
			t.Title = strings.TrimSpace(*input.Title)
			fields = append(fields, "title")
		}
		if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
			t.Description = strings.TrimSpace(*input.Description)
			fields = append(fields, "description")
		}
		if input.Category != nil {
			t.Category = strings.TrimSpace(*input.Category)
			fields = append(fields, "category")
		}
		if input.Team != nil {
			team := strings.TrimSpace(*input.Team)
			if team == "" {
				team = domain.TeamUnassigned
			}
			t.Team = team
			fields = append(fields, "team")
		}
		if input.Status != nil && domain.ValidStatus(*input.Status) {
			t.Status = *input.Status
			fields = append(fields, "status")
		}
		if input.Priority != nil && domain.ValidPriority(*input.Priority) {
			t.Priority = *input.Priority
			fields = append(fields, "priority")
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: id,
		Payload:  events.TicketUpdatedPayload{Fields: fields},
	})
	return &updated, nil
}

// Delete removes the ticket once the confirmation gate approves. A
// declined gate performs no state change.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if !s.gate.Confirm("delete-ticket", id) {
		return apperrors.NewConfirmationRequired("delete-ticket")
	}
	removed, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketDeleted,
			TicketID: id,
		})
	}
	return nil
}

// AddNote appends a note with a fresh id and the current timestamp. An
// unknown ticket or a text that is empty after trimming is a no-op.
func (s *TicketService) AddNote(ctx context.Context, ticketID, text, author string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	note := domain.Note{
		ID:        ticketid.NoteID(),
		Text:      text,
		Author:    strings.TrimSpace(author),
		CreatedAt: s.now(),
	}
	_, found, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) {
		t.Notes = append(t.Notes, note)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketNoteAdded,
		TicketID: ticketID,
		Payload:  events.TicketNotePayload{NoteID: note.ID, Author: note.Author},
	})
	return &note, nil
}

// DeleteNote removes a note by id. Unknown ticket or note ids are no-ops
// that leave the ticket untouched, including its update time.
func (s *TicketService) DeleteNote(ctx context.Context, ticketID, noteID string) error {
	ticket, found := s.tickets.Get(ticketID)
	if !found || !hasNote(ticket, noteID) {
		return nil
	}
	_, _, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) {
		kept := make([]domain.Note, 0, len(t.Notes))
		for _, note := range t.Notes {
			if note.ID != noteID {
				kept = append(kept, note)
			}
		}
		t.Notes = kept
	})
	if err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketNoteRemoved,
		TicketID: ticketID,
		Payload:  events.TicketNotePayload{NoteID: noteID},
	})
	return nil
}

func hasNote(t domain.Ticket, noteID string) bool {
	for _, note := range t.Notes {
		if note.ID == noteID {
			return true
		}
	}
	return false
}

// List returns the tickets matching filter, newest first, each paired with
// its SLA deadlines.
func (s *TicketService) List(filter repository.TicketFilter) []TicketView {
	cfg := s.deskConfig.Get()
	tickets := s.tickets.ListWithFilter(filter)
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketView{Ticket: t, Deadlines: sla.ForTicket(t, cfg)})
	}
	return out
}

// Get returns one ticket with deadlines; a miss returns nil.
func (s *TicketService) Get(id string) *TicketView {
	t, found := s.tickets.Get(id)
	if !found {
		return nil
	}
	return &TicketView{Ticket: t, Deadlines: sla.ForTicket(t, s.deskConfig.Get())}
}

// ResetAll drops every ticket and restores the default desk config once the
// gate approves.
func (s *TicketService) ResetAll(ctx context.Context) error {
	if !s.gate.Confirm("reset-all-data", "") {
		return apperrors.NewConfirmationRequired("reset-all-data")
	}
	dropped := s.tickets.Count()
	if err := s.tickets.ReplaceAll(ctx, []domain.Ticket{}); err != nil {
		return err
	}
	if _, err := s.deskConfig.Reset(ctx); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventDataReset,
		Payload: events.DataResetPayload{TicketsDropped: dropped},
	})
	return nil
}

// UpdateDeskConfig normalizes and persists a new desk configuration.
func (s *TicketService) UpdateDeskConfig(ctx context.Context, cfg domain.DeskConfig) (domain.DeskConfig, error) {
	normalized, err := s.deskConfig.Save(ctx, cfg)
	if err != nil {
		return domain.DeskConfig{}, err
	}
	s.publishEvent(ctx, events.Event{Type: events.EventDeskConfigUpdated})
	return normalized, nil
}

// DeskConfig returns the current normalized configuration.
func (s *TicketService) DeskConfig() domain.DeskConfig {
	return s.deskConfig.Get()
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
