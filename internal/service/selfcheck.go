package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/migrate"
	"github.com/spec-kit/support-desk/internal/sla"
	"github.com/spec-kit/support-desk/internal/ticketid"
)

// CheckResult is one startup diagnostic outcome.
type CheckResult struct {
	Name   string
	Passed bool
	Detail string
}

// RunSelfCheck exercises the core invariants: id format, default config
// non-emptiness, default SLA minutes, deadline arithmetic and migration
// defaulting. It is observability-only; failures are reported, never fatal.
func RunSelfCheck() []CheckResult {
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	results := []CheckResult{}

	id := ticketid.Format(7, t0)
	results = append(results, check("id format",
		ticketid.Valid(id) && id == "TCK-20240601-0007",
		fmt.Sprintf("generated %q", id)))

	wrapped := ticketid.Format(123456, t0)
	results = append(results, check("id sequence wrap",
		wrapped == "TCK-20240601-3456",
		fmt.Sprintf("generated %q", wrapped)))

	cfg := domain.DefaultDeskConfig()
	results = append(results, check("default config non-empty",
		len(cfg.Categories) > 0 && len(cfg.Teams) > 0 && len(cfg.Priorities) == 4,
		fmt.Sprintf("%d categories, %d teams, %d priorities", len(cfg.Categories), len(cfg.Teams), len(cfg.Priorities))))

	p1 := cfg.Priorities[domain.TicketPriorityP1]
	results = append(results, check("default P1 SLA minutes",
		p1.RespondMinutes == 60 && p1.ResolveMinutes == 1440,
		fmt.Sprintf("respond=%d resolve=%d", p1.RespondMinutes, p1.ResolveMinutes)))

	deadlines := sla.Compute(domain.TicketPriorityP1, t0, cfg)
	results = append(results, check("deadline arithmetic",
		deadlines.RespondDue.Sub(t0) == time.Hour && deadlines.ResolveDue.Sub(t0) == 24*time.Hour,
		fmt.Sprintf("respond+%s resolve+%s", deadlines.RespondDue.Sub(t0), deadlines.ResolveDue.Sub(t0))))

	legacy := migrate.Ticket(map[string]any{"id": "L-1", "title": "Legacy"}, cfg, func() string { return "TCK-00000000-0000" }, t0)
	results = append(results, check("migration defaulting",
		legacy.Priority == domain.DefaultPriority && legacy.Team == domain.TeamUnassigned && legacy.ContactMethod == domain.ContactMethodEmail,
		fmt.Sprintf("priority=%s team=%s contact=%s", legacy.Priority, legacy.Team, legacy.ContactMethod)))

	renorm := domain.NormalizeDeskConfig(cfg)
	results = append(results, check("normalization idempotent",
		len(renorm.Categories) == len(cfg.Categories) && len(renorm.Teams) == len(cfg.Teams),
		""))

	return results
}

// LogSelfCheck runs the diagnostics and reports them; it never aborts
// startup.
func LogSelfCheck(logger *zap.Logger) {
	results := RunSelfCheck()
	failures := 0
	for _, result := range results {
		if result.Passed {
			logger.Debug("self-check passed", zap.String("check", result.Name), zap.String("detail", result.Detail))
			continue
		}
		failures++
		logger.Warn("self-check failed", zap.String("check", result.Name), zap.String("detail", result.Detail))
	}
	if failures == 0 {
		logger.Info("self-check passed", zap.Int("checks", len(results)))
	} else {
		logger.Warn("self-check completed with failures", zap.Int("failures", failures))
	}
}

func check(name string, passed bool, detail string) CheckResult {
	return CheckResult{Name: name, Passed: passed, Detail: detail}
}
