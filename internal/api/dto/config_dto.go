package dto

import "github.com/spec-kit/support-desk/internal/domain"

// UpdateDeskConfigRequest replaces the desk configuration; anything missing
// or malformed is repaired by normalization rather than rejected.
type UpdateDeskConfigRequest struct {
	Categories []string                                 `json:"categories"`
	Teams      []string                                 `json:"teams"`
	Priorities map[domain.TicketPriority]PriorityPolicy `json:"priorities"`
}

// PriorityPolicy mirrors the SLA budget for one priority.
type PriorityPolicy struct {
	Label          string `json:"label"`
	RespondMinutes int    `json:"respond_minutes"`
	ResolveMinutes int    `json:"resolve_minutes"`
}

// ToDomain converts the request to the domain config shape.
func (r UpdateDeskConfigRequest) ToDomain() domain.DeskConfig {
	priorities := make(map[domain.TicketPriority]domain.PriorityPolicy, len(r.Priorities))
	for key, policy := range r.Priorities {
		priorities[key] = domain.PriorityPolicy{
			Label:          policy.Label,
			RespondMinutes: policy.RespondMinutes,
			ResolveMinutes: policy.ResolveMinutes,
		}
	}
	return domain.DeskConfig{
		Categories: r.Categories,
		Teams:      r.Teams,
		Priorities: priorities,
	}
}
