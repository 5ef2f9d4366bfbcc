package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusOnHold     TicketStatus = "OnHold"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates SLA urgency, P1 most urgent.
type TicketPriority string

const (
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
	TicketPriorityP4 TicketPriority = "P4"
)

// DefaultPriority is applied when a ticket carries no usable priority.
const DefaultPriority = TicketPriorityP3

// ContactMethod is how the requester wants to be reached.
type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "email"
	ContactMethodPhone ContactMethod = "phone"
)

// TeamUnassigned is the reserved team sentinel for untriaged tickets.
const TeamUnassigned = "Unassigned"

// FilterAll is the sentinel that disables an equality predicate.
const FilterAll = "All"

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Requester     string         `json:"requester"`
	ContactMethod ContactMethod  `json:"contact_method"`
	ContactValue  string         `json:"contact_value"`
	Category      string         `json:"category"`
	Team          string         `json:"team"`
	Status        TicketStatus   `json:"status"`
	Priority      TicketPriority `json:"priority"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Notes         []Note         `json:"notes"`
}

// Note is an administrative annotation on a ticket. Notes are immutable
// once created; the only permitted change is removal by id.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidStatus reports whether s is one of the five lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusOnHold, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of P1..P4.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityP1, TicketPriorityP2, TicketPriorityP3, TicketPriorityP4:
		return true
	}
	return false
}

// Priorities lists the priority keys in urgency order.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityP1, TicketPriorityP2, TicketPriorityP3, TicketPriorityP4}
}
