package repository

import (
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketFilter captures triage search parameters. The free-text query is a
// case-insensitive substring match ORed across id, title, description,
// requester, category and team; the equality predicates AND together, each
// disabled by the "All" sentinel or an empty value.
type TicketFilter struct {
	Query    string
	Status   string
	Category string
	Team     string
	Priority string
}

// FilterTickets returns the tickets matching filter, preserving the input
// collection's relative order. Pure: the input is never mutated.
func FilterTickets(tickets []domain.Ticket, filter TicketFilter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single ticket satisfies every active predicate.
func (f TicketFilter) Matches(t domain.Ticket) bool {
	if !predicateDisabled(f.Status) && string(t.Status) != f.Status {
		return false
	}
	if !predicateDisabled(f.Category) && t.Category != f.Category {
		return false
	}
	if !predicateDisabled(f.Team) && t.Team != f.Team {
		return false
	}
	if !predicateDisabled(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	return matchesQuery(t, f.Query)
}

func predicateDisabled(value string) bool {
	return value == "" || value == domain.FilterAll
}

func matchesQuery(t domain.Ticket, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{t.ID, t.Title, t.Description, t.Requester, t.Category, t.Team} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
