package sla

import (
	"testing"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestComputeP1Defaults(t *testing.T) {
	d := Compute(domain.TicketPriorityP1, t0, domain.DefaultDeskConfig())
	if got := d.RespondDue.Sub(t0); got != 60*time.Minute {
		t.Errorf("P1 respond delta = %s, want 60m", got)
	}
	if got := d.ResolveDue.Sub(t0); got != 1440*time.Minute {
		t.Errorf("P1 resolve delta = %s, want 1440m", got)
	}
}

func TestComputeUnknownPriorityBehavesLikeP3(t *testing.T) {
	cfg := domain.DefaultDeskConfig()
	want := Compute(domain.TicketPriorityP3, t0, cfg)
	for _, p := range []domain.TicketPriority{"", "P9", "urgent"} {
		got := Compute(p, t0, cfg)
		if !got.RespondDue.Equal(want.RespondDue) || !got.ResolveDue.Equal(want.ResolveDue) {
			t.Errorf("Compute(%q) = %+v, want same as P3 %+v", p, got, want)
		}
	}
}

func TestComputeMissingTableEntryFallsBack(t *testing.T) {
	// a config with no priority table at all still yields valid deadlines
	cfg := domain.DeskConfig{Categories: []string{"General"}, Teams: []string{domain.TeamUnassigned}}
	d := Compute(domain.TicketPriorityP2, t0, cfg)
	policy := domain.DefaultPriorityTable[domain.TicketPriorityP2]
	if got := d.RespondDue.Sub(t0); got != time.Duration(policy.RespondMinutes)*time.Minute {
		t.Errorf("P2 respond delta = %s, want %dm", got, policy.RespondMinutes)
	}
}

func TestComputeHonorsConfiguredMinutes(t *testing.T) {
	cfg := domain.DefaultDeskConfig()
	cfg.Priorities[domain.TicketPriorityP4] = domain.PriorityPolicy{Label: "Low", RespondMinutes: 5, ResolveMinutes: 10}
	d := Compute(domain.TicketPriorityP4, t0, cfg)
	if got := d.RespondDue.Sub(t0); got != 5*time.Minute {
		t.Errorf("configured P4 respond delta = %s, want 5m", got)
	}
	if got := d.ResolveDue.Sub(t0); got != 10*time.Minute {
		t.Errorf("configured P4 resolve delta = %s, want 10m", got)
	}
}

func TestBreached(t *testing.T) {
	cfg := domain.DefaultDeskConfig()
	ticket := domain.Ticket{Priority: domain.TicketPriorityP1, CreatedAt: t0, Status: domain.TicketStatusOpen}

	respond, resolve := Breached(ticket, cfg, t0.Add(30*time.Minute))
	if respond || resolve {
		t.Errorf("Breached before deadlines = (%v, %v), want (false, false)", respond, resolve)
	}

	respond, resolve = Breached(ticket, cfg, t0.Add(2*time.Hour))
	if !respond || resolve {
		t.Errorf("Breached after respond due = (%v, %v), want (true, false)", respond, resolve)
	}

	ticket.Status = domain.TicketStatusResolved
	respond, resolve = Breached(ticket, cfg, t0.Add(100*time.Hour))
	if respond || resolve {
		t.Errorf("resolved ticket reported breached = (%v, %v)", respond, resolve)
	}
}
