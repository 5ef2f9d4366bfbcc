// Package sla derives absolute respond/resolve deadlines from a ticket's
// priority and creation time.
package sla

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Deadlines are the absolute SLA deadlines for one ticket.
type Deadlines struct {
	RespondDue time.Time `json:"respond_due"`
	ResolveDue time.Time `json:"resolve_due"`
}

// Compute returns the deadlines for a ticket created at createdAt with the
// given priority under cfg. An absent or unrecognized priority is treated
// as the default (P3); a priority missing from cfg falls back to the
// hardcoded policy for that priority. Compute never fails.
func Compute(priority domain.TicketPriority, createdAt time.Time, cfg domain.DeskConfig) Deadlines {
	if !domain.ValidPriority(priority) {
		priority = domain.DefaultPriority
	}
	policy, ok := cfg.Priorities[priority]
	if !ok {
		policy = domain.DefaultPolicy(priority)
	}
	return Deadlines{
		RespondDue: createdAt.Add(time.Duration(policy.RespondMinutes) * time.Minute),
		ResolveDue: createdAt.Add(time.Duration(policy.ResolveMinutes) * time.Minute),
	}
}

// ForTicket is a convenience wrapper over Compute.
func ForTicket(t domain.Ticket, cfg domain.DeskConfig) Deadlines {
	return Compute(t.Priority, t.CreatedAt, cfg)
}

// Breached reports which deadlines have passed as of now. Resolved and
// closed tickets are considered settled and never breached.
func Breached(t domain.Ticket, cfg domain.DeskConfig, now time.Time) (respond, resolve bool) {
	if t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusClosed {
		return false, false
	}
	d := ForTicket(t, cfg)
	return now.After(d.RespondDue), now.After(d.ResolveDue)
}
