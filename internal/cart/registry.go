package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"cartpricing/internal/domain"
	"cartpricing/internal/pricing"
)

// Store persists a cart's rows as a plain row array. Implementations live
// outside this package; the resolution subsystem only requires that a
// restored collection arrives cold.
type Store interface {
	Save(ctx context.Context, instance string, items *domain.LineItemCollection) error
	Restore(ctx context.Context, instance string) (*domain.LineItemCollection, error)
}

// Registry hands out named cart instances, one owner per name at a time.
// Instance lookup is serialized; operations on an obtained Instance are not,
// matching the single-owner model.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Instance

	resolver pricing.Resolver
	cfg      Config
	store    Store // nil disables persistence
	logger   *log.Logger
}

func NewRegistry(resolver pricing.Resolver, cfg Config, store Store, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{
		instances: make(map[string]*Instance),
		resolver:  resolver,
		cfg:       cfg,
		store:     store,
		logger:    logger,
	}
}

// Instance returns the named cart, creating it on first use. A fresh
// instance is restored from the store when one is configured; a cart absent
// from the store starts empty.
func (r *Registry) Instance(ctx context.Context, name string, pctx domain.PricingContext) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[name]; ok {
		inst.SetPricingContext(pctx)
		return inst, nil
	}

	inst := New(name, r.resolver, pctx, r.cfg, r.logger)
	if r.store != nil {
		items, err := r.store.Restore(ctx, name)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// first use of this instance name
		case err != nil:
			return nil, fmt.Errorf("restore cart %s: %w", name, err)
		case items.Len() > 0:
			inst.Restore(items)
		}
	}

	r.instances[name] = inst
	return inst, nil
}

// Persist writes the instance's rows through the store, if one is
// configured.
func (r *Registry) Persist(ctx context.Context, inst *Instance) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(ctx, inst.Name(), inst.Collection()); err != nil {
		return fmt.Errorf("persist cart %s: %w", inst.Name(), err)
	}
	return nil
}
