package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/ticketid"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

var serviceNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service *TicketService
	tickets repository.TicketRepository
	config  repository.DeskConfigRepository
	events  *[]events.Event
	clock   *time.Time
}

func newFixture(t *testing.T, approve bool) fixture {
	t.Helper()
	ctx := context.Background()
	kv := persistence.NewMemoryKV()

	configRepo := repository.NewDeskConfigRepository(kv, "helpdesk:config")
	if err := configRepo.Load(ctx); err != nil {
		t.Fatalf("config Load: %v", err)
	}

	seq := ticketid.NewSequence(0)
	clock := serviceNow
	ticketRepo := repository.NewTicketRepository(repository.TicketRepositoryDeps{
		KV:         kv,
		Key:        "helpdesk:tickets",
		NextID:     seq.NextID,
		DeskConfig: configRepo.Get,
		Now:        func() time.Time { return clock },
	})
	if err := ticketRepo.Load(ctx); err != nil {
		t.Fatalf("ticket Load: %v", err)
	}

	dispatcher := events.NewSyncDispatcher()
	var published []events.Event
	recorder := func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated, events.EventTicketUpdated, events.EventTicketDeleted,
		events.EventTicketNoteAdded, events.EventTicketNoteRemoved, events.EventDataReset,
	} {
		dispatcher.Subscribe(eventType, recorder)
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:     ticketRepo,
		DeskConfigRepo: configRepo,
		Sequence:       seq,
		Gate:           ConfirmerFunc(func(string, string) bool { return approve }),
		Dispatcher:     dispatcher,
		Now:            func() time.Time { return clock },
	})
	return fixture{service: svc, tickets: ticketRepo, config: configRepo, events: &published, clock: &clock}
}

func validInput() TicketCreateInput {
	return TicketCreateInput{
		Title:         "Printer jams",
		Description:   "Second floor printer jams on every job",
		Requester:     "Dana",
		ContactMethod: domain.ContactMethodEmail,
		ContactValue:  "dana@example.com",
		Category:      "Technical Issue",
	}
}

func TestCreateTicket(t *testing.T) {
	f := newFixture(t, true)
	ticket, err := f.service.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !ticketid.Valid(ticket.ID) {
		t.Errorf("ID = %q, not in generator format", ticket.ID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("Status = %q, want Open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityP3 {
		t.Errorf("Priority = %q, want defaulted P3", ticket.Priority)
	}
	if ticket.Team != domain.TeamUnassigned {
		t.Errorf("Team = %q, want %q", ticket.Team, domain.TeamUnassigned)
	}
	if !ticket.CreatedAt.Equal(serviceNow) || !ticket.UpdatedAt.Equal(serviceNow) {
		t.Errorf("timestamps = %s/%s, want stamped %s", ticket.CreatedAt, ticket.UpdatedAt, serviceNow)
	}
	if len(*f.events) != 1 || (*f.events)[0].Type != events.EventTicketCreated {
		t.Errorf("events = %v, want one ticket_created", *f.events)
	}
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	first, _ := f.service.Create(ctx, validInput())
	input := validInput()
	input.Title = "Second ticket"
	second, _ := f.service.Create(ctx, input)

	list := f.service.List(repository.TicketFilter{})
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list order wrong: got %s then %s, want newest first", list[0].ID, list[1].ID)
	}
}

func TestCreateValidationCollectsOrderedViolations(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.service.Create(context.Background(), TicketCreateInput{
		ContactMethod: domain.ContactMethodEmail,
	})
	if err == nil {
		t.Fatal("Create with empty input succeeded, want validation failure")
	}
	violations := apperrors.ValidationViolations(err)
	want := []string{
		"title is required",
		"description is required",
		"requester name is required",
		"contact value is required",
	}
	if len(violations) != len(want) {
		t.Fatalf("violations = %v, want %v", violations, want)
	}
	for i := range want {
		if violations[i] != want[i] {
			t.Errorf("violations[%d] = %q, want %q", i, violations[i], want[i])
		}
	}
	if f.tickets.Count() != 0 {
		t.Error("failed validation mutated the collection")
	}
}

func TestCreateRejectsInvalidEmailWithoutMutation(t *testing.T) {
	f := newFixture(t, true)
	input := validInput()
	input.ContactValue = "not-an-email"
	_, err := f.service.Create(context.Background(), input)
	if err == nil {
		t.Fatal("Create with invalid email succeeded")
	}
	if violations := apperrors.ValidationViolations(err); len(violations) != 1 ||
		!strings.Contains(violations[0], "email") {
		t.Errorf("violations = %v, want single email violation", violations)
	}
	if f.tickets.Count() != 0 {
		t.Error("collection changed after rejected submission")
	}
	if len(*f.events) != 0 {
		t.Errorf("events published for rejected submission: %v", *f.events)
	}
}

func TestCreatePhoneValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	input := validInput()
	input.ContactMethod = domain.ContactMethodPhone
	input.ContactValue = "555-1234"
	if _, err := f.service.Create(ctx, input); err == nil {
		t.Error("short phone number accepted")
	}

	input.ContactValue = "+1 (555) 123-4567"
	if _, err := f.service.Create(ctx, input); err != nil {
		t.Errorf("10-digit phone number rejected: %v", err)
	}
}

func TestUpdateMergesAndStamps(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())

	*f.clock = serviceNow.Add(time.Hour)
	team := "Engineering"
	status := domain.TicketStatusInProgress
	updated, err := f.service.Update(ctx, created.ID, TicketUpdateInput{Team: &team, Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Team != "Engineering" || updated.Status != domain.TicketStatusInProgress {
		t.Errorf("merge missed fields: %+v", updated)
	}
	if updated.Title != created.Title {
		t.Errorf("untouched Title changed: %q", updated.Title)
	}
	if !updated.UpdatedAt.Equal(serviceNow.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %s, want advanced clock", updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %s", updated.CreatedAt)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	f := newFixture(t, true)
	title := "whatever"
	ticket, err := f.service.Update(context.Background(), "TCK-19990101-0000", TicketUpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ticket != nil {
		t.Errorf("Update unknown id returned %+v, want nil", ticket)
	}
}

func TestDeleteDeclinedGateLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())

	err := f.service.Delete(ctx, created.ID)
	if err == nil {
		t.Fatal("Delete with declining gate returned nil error")
	}
	if code := apperrors.ToDomainError(err).Code; code != "CONFIRMATION_REQUIRED" {
		t.Errorf("error code = %q, want CONFIRMATION_REQUIRED", code)
	}
	if f.tickets.Count() != 1 {
		t.Error("declined delete removed the ticket")
	}
}

func TestDeleteApprovedGateRemoves(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())

	if err := f.service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.tickets.Count() != 0 {
		t.Error("ticket survived approved delete")
	}
	if err := f.service.Delete(ctx, created.ID); err != nil {
		t.Errorf("Delete of unknown id errored: %v", err)
	}
}

func TestAddNote(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())

	note, err := f.service.AddNote(ctx, created.ID, "  called the requester  ", "admin")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if note == nil {
		t.Fatal("AddNote returned nil note for a valid ticket")
	}
	if note.Text != "called the requester" {
		t.Errorf("note text = %q, want trimmed", note.Text)
	}
	if note.ID == "" {
		t.Error("note id empty")
	}

	stored := f.service.Get(created.ID)
	if len(stored.Notes) != 1 || stored.Notes[0].ID != note.ID {
		t.Errorf("stored notes = %v, want appended note", stored.Notes)
	}
}

func TestAddNoteBlankTextIsNoop(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())

	note, err := f.service.AddNote(ctx, created.ID, "   ", "admin")
	if err != nil || note != nil {
		t.Errorf("AddNote blank = (%v, %v), want (nil, nil)", note, err)
	}
	if stored := f.service.Get(created.ID); len(stored.Notes) != 0 {
		t.Errorf("blank note stored: %v", stored.Notes)
	}
}

func TestAddNoteUnknownTicketIsNoop(t *testing.T) {
	f := newFixture(t, true)
	note, err := f.service.AddNote(context.Background(), "TCK-19990101-0000", "text", "")
	if err != nil || note != nil {
		t.Errorf("AddNote unknown ticket = (%v, %v), want (nil, nil)", note, err)
	}
}

func TestDeleteNoteUnknownIDLeavesNotesUntouched(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())
	note, _ := f.service.AddNote(ctx, created.ID, "keep me", "")
	before := f.service.Get(created.ID)

	*f.clock = serviceNow.Add(time.Hour)
	if err := f.service.DeleteNote(ctx, created.ID, "no-such-note"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}

	after := f.service.Get(created.ID)
	if len(after.Notes) != 1 || after.Notes[0].ID != note.ID {
		t.Errorf("notes changed: %v", after.Notes)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("no-op DeleteNote stamped UpdatedAt: %s", after.UpdatedAt)
	}
}

func TestDeleteNoteRemovesByID(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	created, _ := f.service.Create(ctx, validInput())
	first, _ := f.service.AddNote(ctx, created.ID, "first", "")
	second, _ := f.service.AddNote(ctx, created.ID, "second", "")

	if err := f.service.DeleteNote(ctx, created.ID, first.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	stored := f.service.Get(created.ID)
	if len(stored.Notes) != 1 || stored.Notes[0].ID != second.ID {
		t.Errorf("notes after delete = %v, want only %q", stored.Notes, second.ID)
	}
}

func TestResetAll(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.service.Create(ctx, validInput())
	f.service.UpdateDeskConfig(ctx, domain.DeskConfig{Categories: []string{"Custom"}})

	if err := f.service.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if f.tickets.Count() != 0 {
		t.Error("tickets survived reset")
	}
	if got := f.service.DeskConfig().Categories[0]; got != domain.DefaultCategories[0] {
		t.Errorf("config after reset = %q, want defaults", got)
	}
}

func TestResetAllDeclined(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	// create bypasses the gate; only destructive ops consult it
	if _, err := f.service.Create(ctx, validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.service.ResetAll(ctx); err == nil {
		t.Fatal("ResetAll with declining gate returned nil error")
	}
	if f.tickets.Count() != 1 {
		t.Error("declined reset dropped tickets")
	}
}

func TestListComputesDeadlines(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	input := validInput()
	input.Priority = domain.TicketPriorityP1
	created, _ := f.service.Create(ctx, input)

	view := f.service.Get(created.ID)
	if got := view.Deadlines.RespondDue.Sub(created.CreatedAt); got != time.Hour {
		t.Errorf("P1 respond deadline delta = %s, want 1h", got)
	}
	if got := view.Deadlines.ResolveDue.Sub(created.CreatedAt); got != 24*time.Hour {
		t.Errorf("P1 resolve deadline delta = %s, want 24h", got)
	}
}
