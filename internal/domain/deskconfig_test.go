package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeDeskConfigEmptyInput(t *testing.T) {
	cfg := NormalizeDeskConfig(DeskConfig{})

	if len(cfg.Categories) == 0 {
		t.Error("normalized categories are empty, want defaults")
	}
	if len(cfg.Teams) == 0 {
		t.Error("normalized teams are empty, want defaults")
	}
	if len(cfg.Priorities) != 4 {
		t.Errorf("priority table has %d entries, want 4", len(cfg.Priorities))
	}
	for _, p := range Priorities() {
		policy, ok := cfg.Priorities[p]
		if !ok {
			t.Fatalf("priority %s missing from normalized table", p)
		}
		if policy.RespondMinutes <= 0 || policy.ResolveMinutes <= 0 {
			t.Errorf("priority %s has non-positive minutes: %+v", p, policy)
		}
		if policy.Label == "" {
			t.Errorf("priority %s has empty label", p)
		}
	}
}

func TestNormalizeDeskConfigKeepsUnassignedSentinel(t *testing.T) {
	cfg := NormalizeDeskConfig(DeskConfig{Teams: []string{"Support"}})
	if cfg.Teams[0] != TeamUnassigned {
		t.Errorf("Teams[0] = %q, want %q prepended", cfg.Teams[0], TeamUnassigned)
	}
	if !containsString(cfg.Teams, "Support") {
		t.Error("custom team dropped during normalization")
	}
}

func TestNormalizeDeskConfigPerPriorityDefaulting(t *testing.T) {
	// only P1 is supplied; the other rows must fall back individually
	cfg := NormalizeDeskConfig(DeskConfig{
		Priorities: map[TicketPriority]PriorityPolicy{
			TicketPriorityP1: {Label: "Sev1", RespondMinutes: 15, ResolveMinutes: 120},
		},
	})

	p1 := cfg.Priorities[TicketPriorityP1]
	if p1.Label != "Sev1" || p1.RespondMinutes != 15 || p1.ResolveMinutes != 120 {
		t.Errorf("P1 = %+v, want supplied values preserved", p1)
	}
	p2 := cfg.Priorities[TicketPriorityP2]
	if !reflect.DeepEqual(p2, DefaultPriorityTable[TicketPriorityP2]) {
		t.Errorf("P2 = %+v, want default %+v", p2, DefaultPriorityTable[TicketPriorityP2])
	}
}

func TestNormalizeDeskConfigRepairsNegativeMinutes(t *testing.T) {
	cfg := NormalizeDeskConfig(DeskConfig{
		Priorities: map[TicketPriority]PriorityPolicy{
			TicketPriorityP3: {Label: "Medium", RespondMinutes: -5, ResolveMinutes: 0},
		},
	})
	p3 := cfg.Priorities[TicketPriorityP3]
	if p3.RespondMinutes != DefaultPriorityTable[TicketPriorityP3].RespondMinutes {
		t.Errorf("P3 respond = %d, want default", p3.RespondMinutes)
	}
	if p3.ResolveMinutes != DefaultPriorityTable[TicketPriorityP3].ResolveMinutes {
		t.Errorf("P3 resolve = %d, want default", p3.ResolveMinutes)
	}
}

func TestNormalizeDeskConfigDropsEmptyAndDuplicateEntries(t *testing.T) {
	cfg := NormalizeDeskConfig(DeskConfig{
		Categories: []string{"Billing", "", "Billing", "Other"},
	})
	want := []string{"Billing", "Other"}
	if !reflect.DeepEqual(cfg.Categories, want) {
		t.Errorf("Categories = %v, want %v", cfg.Categories, want)
	}
}

func TestNormalizeDeskConfigIdempotent(t *testing.T) {
	inputs := []DeskConfig{
		{},
		{Categories: []string{"A"}, Teams: []string{"T"}},
		{Priorities: map[TicketPriority]PriorityPolicy{TicketPriorityP2: {RespondMinutes: 30}}},
	}
	for _, input := range inputs {
		once := NormalizeDeskConfig(input)
		twice := NormalizeDeskConfig(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
		}
	}
}

func TestDefaultP1Minutes(t *testing.T) {
	p1 := DefaultPriorityTable[TicketPriorityP1]
	if p1.RespondMinutes != 60 || p1.ResolveMinutes != 1440 {
		t.Errorf("default P1 = %+v, want respond 60, resolve 1440", p1)
	}
}
