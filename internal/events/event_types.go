package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketUpdated     EventType = "ticket_updated"
	EventTicketDeleted     EventType = "ticket_deleted"
	EventTicketNoteAdded   EventType = "ticket_note_added"
	EventTicketNoteRemoved EventType = "ticket_note_removed"
	EventDeskConfigUpdated EventType = "desk_config_updated"
	EventDataReset         EventType = "data_reset"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Category string                `json:"category"`
	Team     string                `json:"team"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketUpdatedPayload lists the fields an update touched.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TicketNotePayload payload for note add/remove.
type TicketNotePayload struct {
	NoteID string `json:"note_id"`
	Author string `json:"author,omitempty"`
}

// DataResetPayload reports how many tickets a reset discarded.
type DataResetPayload struct {
	TicketsDropped int `json:"tickets_dropped"`
}
