package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// exportSeparator delimits columns; occurrences inside field values are
// substituted so column alignment survives.
const (
	exportSeparator  = ","
	exportSubstitute = ";"
)

var exportHeader = []string{
	"id", "title", "requester", "contact_method", "contact_value",
	"category", "team", "status", "priority", "created_at", "updated_at", "notes",
}

// Export renders the ticket collection as a row-oriented text table: a
// header row of field names, then one row per ticket. The filename embeds
// the export date.
type Export struct {
	Filename string
	Data     string
}

// ExportTickets builds the export for the given tickets as of at.
func ExportTickets(tickets []domain.Ticket, at time.Time) Export {
	rows := make([]string, 0, len(tickets)+1)
	rows = append(rows, strings.Join(exportHeader, exportSeparator))
	for _, t := range tickets {
		rows = append(rows, exportRow(t))
	}
	return Export{
		Filename: fmt.Sprintf("tickets-%s.csv", at.UTC().Format("20060102")),
		Data:     strings.Join(rows, "\n") + "\n",
	}
}

func exportRow(t domain.Ticket) string {
	fields := []string{
		t.ID,
		t.Title,
		t.Requester,
		string(t.ContactMethod),
		t.ContactValue,
		t.Category,
		t.Team,
		string(t.Status),
		string(t.Priority),
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
		fmt.Sprintf("%d", len(t.Notes)),
	}
	for i, field := range fields {
		fields[i] = sanitizeField(field)
	}
	return strings.Join(fields, exportSeparator)
}

func sanitizeField(value string) string {
	value = strings.ReplaceAll(value, exportSeparator, exportSubstitute)
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
