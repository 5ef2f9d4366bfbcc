package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/migrate"
	"github.com/spec-kit/support-desk/internal/persistence"
)

// TicketRepository owns the in-memory ticket collection. The collection is
// loaded once at startup (every stored record passes through migration) and
// is the sole source of truth afterwards; every mutation synchronously
// rewrites the whole persisted document. Ordering is newest-first: Insert
// prepends.
type TicketRepository interface {
	Load(ctx context.Context) error
	List() []domain.Ticket
	ListWithFilter(filter TicketFilter) []domain.Ticket
	Get(id string) (domain.Ticket, bool)
	Count() int
	Insert(ctx context.Context, ticket domain.Ticket) error
	Update(ctx context.Context, id string, apply func(*domain.Ticket)) (domain.Ticket, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ReplaceAll(ctx context.Context, tickets []domain.Ticket) error
}

// TicketRepositoryDeps bundles collaborators for the KV-backed repository.
type TicketRepositoryDeps struct {
	KV         persistence.KV
	Key        string
	NextID     func() string
	DeskConfig func() domain.DeskConfig
	Now        func() time.Time
}

type kvTicketRepository struct {
	kv         persistence.KV
	key        string
	nextID     func() string
	deskConfig func() domain.DeskConfig
	now        func() time.Time

	mu      sync.Mutex
	tickets []domain.Ticket
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(deps TicketRepositoryDeps) TicketRepository {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &kvTicketRepository{
		kv:         deps.KV,
		key:        deps.Key,
		nextID:     deps.NextID,
		deskConfig: deps.DeskConfig,
		now:        deps.Now,
		tickets:    []domain.Ticket{},
	}
}

// Load reads the persisted collection and migrates every record. A missing
// or malformed document yields an empty collection, never an error; only
// storage transport failures surface.
func (r *kvTicketRepository) Load(ctx context.Context) error {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return err
	}
	tickets := []domain.Ticket{}
	if found {
		tickets = migrate.Collection([]byte(raw), r.deskConfig(), r.nextID, r.now())
	}
	r.mu.Lock()
	r.tickets = tickets
	r.mu.Unlock()
	return nil
}

func (r *kvTicketRepository) List() []domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneTickets(r.tickets)
}

func (r *kvTicketRepository) ListWithFilter(filter TicketFilter) []domain.Ticket {
	return FilterTickets(r.List(), filter)
}

func (r *kvTicketRepository) Get(id string) (domain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			return cloneTicket(r.tickets[i]), true
		}
	}
	return domain.Ticket{}, false
}

func (r *kvTicketRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

func (r *kvTicketRepository) Insert(ctx context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]domain.Ticket, 0, len(r.tickets)+1)
	next = append(next, ticket)
	next = append(next, r.tickets...)
	return r.commit(ctx, next)
}

// Update applies a partial mutation to the matching ticket and stamps
// updated_at. Unknown ids are a no-op, not an error.
func (r *kvTicketRepository) Update(ctx context.Context, id string, apply func(*domain.Ticket)) (domain.Ticket, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID != id {
			continue
		}
		next := cloneTickets(r.tickets)
		apply(&next[i])
		next[i].ID = id // the id is immutable once assigned
		next[i].UpdatedAt = r.now()
		if err := r.commit(ctx, next); err != nil {
			return domain.Ticket{}, false, err
		}
		return cloneTicket(r.tickets[i]), true, nil
	}
	return domain.Ticket{}, false, nil
}

// Delete removes the ticket by id. Removal is hard: no tombstone, no undo.
func (r *kvTicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID != id {
			continue
		}
		next := make([]domain.Ticket, 0, len(r.tickets)-1)
		next = append(next, r.tickets[:i]...)
		next = append(next, r.tickets[i+1:]...)
		if err := r.commit(ctx, next); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (r *kvTicketRepository) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(ctx, cloneTickets(tickets))
}

// commit persists the candidate collection and, only on success, makes it
// the in-memory snapshot. Callers hold the mutex.
func (r *kvTicketRepository) commit(ctx context.Context, tickets []domain.Ticket) error {
	encoded, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, r.key, string(encoded)); err != nil {
		return err
	}
	r.tickets = tickets
	return nil
}

func cloneTickets(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	for i := range tickets {
		out[i] = cloneTicket(tickets[i])
	}
	return out
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	out := t
	out.Notes = make([]domain.Note, len(t.Notes))
	copy(out.Notes, t.Notes)
	return out
}
