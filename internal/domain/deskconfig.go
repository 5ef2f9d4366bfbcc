package domain

// PriorityPolicy is the SLA budget attached to one priority.
type PriorityPolicy struct {
	Label          string `json:"label"`
	RespondMinutes int    `json:"respond_minutes"`
	ResolveMinutes int    `json:"resolve_minutes"`
}

// DeskConfig holds the administrator-editable desk settings: the category
// list offered on submission, the team list used for assignment, and the
// per-priority SLA table.
type DeskConfig struct {
	Categories []string                          `json:"categories"`
	Teams      []string                          `json:"teams"`
	Priorities map[TicketPriority]PriorityPolicy `json:"priorities"`
}

// Default slice/map values for a fresh desk (cannot be const).
var (
	DefaultCategories = []string{"General", "Technical Issue", "Billing", "Account", "Other"}

	DefaultTeams = []string{TeamUnassigned, "Support", "Engineering", "Billing Ops"}

	DefaultPriorityTable = map[TicketPriority]PriorityPolicy{
		TicketPriorityP1: {Label: "Critical", RespondMinutes: 60, ResolveMinutes: 1440},
		TicketPriorityP2: {Label: "High", RespondMinutes: 240, ResolveMinutes: 2880},
		TicketPriorityP3: {Label: "Medium", RespondMinutes: 480, ResolveMinutes: 4320},
		TicketPriorityP4: {Label: "Low", RespondMinutes: 1440, ResolveMinutes: 10080},
	}
)

// DefaultDeskConfig returns a fresh copy of the hardcoded defaults.
func DefaultDeskConfig() DeskConfig {
	return NormalizeDeskConfig(DeskConfig{})
}

// DefaultPolicy returns the hardcoded SLA policy for p, falling back to the
// default priority's policy when p is unknown.
func DefaultPolicy(p TicketPriority) PriorityPolicy {
	if policy, ok := DefaultPriorityTable[p]; ok {
		return policy
	}
	return DefaultPriorityTable[DefaultPriority]
}

// NormalizeDeskConfig repairs a possibly partial or malformed config into a
// usable one. It never fails: empty category/team lists fall back to the
// defaults, the Unassigned sentinel is guaranteed present in teams, and the
// priority table is repaired per entry, so a missing or broken P2 row does
// not discard a valid P1 row. Normalization is idempotent.
func NormalizeDeskConfig(cfg DeskConfig) DeskConfig {
	out := DeskConfig{
		Categories: cleanList(cfg.Categories),
		Teams:      cleanList(cfg.Teams),
		Priorities: make(map[TicketPriority]PriorityPolicy, len(DefaultPriorityTable)),
	}

	if len(out.Categories) == 0 {
		out.Categories = append([]string(nil), DefaultCategories...)
	}
	if len(out.Teams) == 0 {
		out.Teams = append([]string(nil), DefaultTeams...)
	}
	if !containsString(out.Teams, TeamUnassigned) {
		out.Teams = append([]string{TeamUnassigned}, out.Teams...)
	}

	for _, p := range Priorities() {
		out.Priorities[p] = normalizePolicy(cfg.Priorities[p], DefaultPriorityTable[p])
	}

	return out
}

func normalizePolicy(policy, fallback PriorityPolicy) PriorityPolicy {
	if policy.Label == "" {
		policy.Label = fallback.Label
	}
	if policy.RespondMinutes <= 0 {
		policy.RespondMinutes = fallback.RespondMinutes
	}
	if policy.ResolveMinutes <= 0 {
		policy.ResolveMinutes = fallback.ResolveMinutes
	}
	return policy
}

// cleanList drops empty entries and duplicates, keeping first-seen order.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
