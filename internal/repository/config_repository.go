package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
)

// DeskConfigRepository owns the current desk configuration. Everything
// leaving it has passed normalization, so callers can rely on non-empty
// category/team lists and a complete priority table.
type DeskConfigRepository interface {
	Load(ctx context.Context) error
	Get() domain.DeskConfig
	Save(ctx context.Context, cfg domain.DeskConfig) (domain.DeskConfig, error)
	Reset(ctx context.Context) (domain.DeskConfig, error)
}

type kvDeskConfigRepository struct {
	kv  persistence.KV
	key string

	mu  sync.Mutex
	cfg domain.DeskConfig
}

// NewDeskConfigRepository instantiates the repository with defaults in
// place until Load runs.
func NewDeskConfigRepository(kv persistence.KV, key string) DeskConfigRepository {
	return &kvDeskConfigRepository{
		kv:  kv,
		key: key,
		cfg: domain.DefaultDeskConfig(),
	}
}

// Load reads the persisted config document. Absent or malformed JSON
// degrades to the defaults; only storage transport failures surface.
func (r *kvDeskConfigRepository) Load(ctx context.Context) error {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return err
	}
	cfg := domain.DeskConfig{}
	if found {
		// a decode failure leaves the zero value, which normalizes to
		// the defaults
		_ = json.Unmarshal([]byte(raw), &cfg)
	}
	r.mu.Lock()
	r.cfg = domain.NormalizeDeskConfig(cfg)
	r.mu.Unlock()
	return nil
}

func (r *kvDeskConfigRepository) Get() domain.DeskConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Save normalizes and persists cfg, returning the normalized form.
func (r *kvDeskConfigRepository) Save(ctx context.Context, cfg domain.DeskConfig) (domain.DeskConfig, error) {
	normalized := domain.NormalizeDeskConfig(cfg)
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return domain.DeskConfig{}, err
	}
	if err := r.kv.Set(ctx, r.key, string(encoded)); err != nil {
		return domain.DeskConfig{}, err
	}
	r.mu.Lock()
	r.cfg = normalized
	r.mu.Unlock()
	return normalized, nil
}

// Reset restores and persists the hardcoded defaults.
func (r *kvDeskConfigRepository) Reset(ctx context.Context) (domain.DeskConfig, error) {
	return r.Save(ctx, domain.DeskConfig{})
}
