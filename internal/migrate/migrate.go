// Package migrate converts arbitrary persisted ticket records into the
// canonical shape. Records written by older deployments lack fields the
// current schema carries; migration fills every gap with a safe default so
// the schema can evolve without a version field. Migration is total (it
// never fails on any input) and idempotent.
package migrate

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Collection decodes a persisted ticket collection blob and migrates every
// record. Malformed or empty input yields an empty collection, never an
// error. nextID synthesizes ids for records that lack one.
func Collection(data []byte, cfg domain.DeskConfig, nextID func() string, now time.Time) []domain.Ticket {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []domain.Ticket{}
	}
	out := make([]domain.Ticket, 0, len(raw))
	for _, record := range raw {
		out = append(out, Ticket(record, cfg, nextID, now))
	}
	return out
}

// Ticket migrates a single raw record into a canonical Ticket.
func Ticket(raw map[string]any, cfg domain.DeskConfig, nextID func() string, now time.Time) domain.Ticket {
	t := domain.Ticket{
		ID:          stringField(raw, "id"),
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description"),
		Requester:   stringField(raw, "requester"),
		ContactValue: firstString(
			stringField(raw, "contact_value"),
			stringField(raw, "contact"),
		),
		Category: stringField(raw, "category"),
		Team:     stringField(raw, "team"),
	}

	if t.ID == "" {
		t.ID = nextID()
	}
	if t.Category == "" && len(cfg.Categories) > 0 {
		t.Category = cfg.Categories[0]
	}
	if t.Team == "" {
		t.Team = domain.TeamUnassigned
	}

	t.ContactMethod = contactField(raw)
	t.Status = statusField(raw)
	t.Priority = priorityField(raw)

	t.CreatedAt = timeField(raw, "created_at", now)
	t.UpdatedAt = timeField(raw, "updated_at", t.CreatedAt)
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}

	t.Notes = notesField(raw, now)

	return t
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func contactField(raw map[string]any) domain.ContactMethod {
	v := strings.ToLower(firstString(
		stringField(raw, "contact_method"),
		stringField(raw, "contact_type"),
	))
	if v == string(domain.ContactMethodPhone) {
		return domain.ContactMethodPhone
	}
	return domain.ContactMethodEmail
}

func statusField(raw map[string]any) domain.TicketStatus {
	v := stringField(raw, "status")
	if s := domain.TicketStatus(v); domain.ValidStatus(s) {
		return s
	}
	// legacy spellings: OPEN, in_progress, on-hold and friends
	switch strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(v), "_", ""), "-", "") {
	case "open":
		return domain.TicketStatusOpen
	case "inprogress":
		return domain.TicketStatusInProgress
	case "onhold", "pending":
		return domain.TicketStatusOnHold
	case "resolved":
		return domain.TicketStatusResolved
	case "closed":
		return domain.TicketStatusClosed
	}
	return domain.TicketStatusOpen
}

func priorityField(raw map[string]any) domain.TicketPriority {
	v := strings.ToUpper(stringField(raw, "priority"))
	if p := domain.TicketPriority(v); domain.ValidPriority(p) {
		return p
	}
	return domain.DefaultPriority
}

func timeField(raw map[string]any, key string, fallback time.Time) time.Time {
	s, ok := raw[key].(string)
	if !ok {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return parsed
}

func notesField(raw map[string]any, now time.Time) []domain.Note {
	items, ok := raw["notes"].([]any)
	if !ok {
		return []domain.Note{}
	}
	notes := make([]domain.Note, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		note := domain.Note{
			ID:        stringField(record, "id"),
			Text:      stringField(record, "text"),
			Author:    stringField(record, "author"),
			CreatedAt: timeField(record, "created_at", now),
		}
		if note.ID == "" || note.Text == "" {
			continue
		}
		notes = append(notes, note)
	}
	return notes
}
