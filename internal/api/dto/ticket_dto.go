package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload for self-service submission.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Requester     string                `json:"requester"`
	ContactMethod domain.ContactMethod  `json:"contact_method"`
	ContactValue  string                `json:"contact_value"`
	Category      string                `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries partial administrative changes; absent fields
// are left untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	Team        *string                `json:"team"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
}

// CreateNoteRequest payload.
type CreateNoteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// TicketResponse is the full ticket view including SLA deadlines.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Requester     string                `json:"requester"`
	ContactMethod domain.ContactMethod  `json:"contact_method"`
	ContactValue  string                `json:"contact_value"`
	Category      string                `json:"category"`
	Team          string                `json:"team"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	RespondDue    time.Time             `json:"respond_due"`
	ResolveDue    time.Time             `json:"resolve_due"`
	Notes         []NoteResponse        `json:"notes"`
}

// NoteResponse represents one ticket note.
type NoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
