package cart

import (
	"context"
	"errors"
	"testing"

	"cartpricing/internal/domain"
)

type stubStore struct {
	rows       map[string]*domain.LineItemCollection
	restoreErr error

	saveCalls    int
	restoreCalls int
}

func (s *stubStore) Save(_ context.Context, instance string, items *domain.LineItemCollection) error {
	s.saveCalls++
	if s.rows == nil {
		s.rows = make(map[string]*domain.LineItemCollection)
	}
	s.rows[instance] = items
	return nil
}

func (s *stubStore) Restore(_ context.Context, instance string) (*domain.LineItemCollection, error) {
	s.restoreCalls++
	if s.restoreErr != nil {
		return nil, s.restoreErr
	}
	coll, ok := s.rows[instance]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return coll, nil
}

func TestRegistryHandsOutSameInstancePerName(t *testing.T) {
	resolver := &countingResolver{unit: 500}
	reg := NewRegistry(resolver, Config{}, nil, nil)
	ctx := context.Background()
	pctx := pctxWith(t, "u1", "main", "USD", "en")

	a, err := reg.Instance(ctx, "main", pctx)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	b, err := reg.Instance(ctx, "main", pctx)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if a != b {
		t.Fatalf("expected the same instance for one name")
	}

	other, err := reg.Instance(ctx, "wishlist", pctxWith(t, "u1", "wishlist", "USD", "en"))
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if other == a {
		t.Fatalf("distinct names must map to distinct instances")
	}
}

func TestRegistryRestoresColdCartFromStore(t *testing.T) {
	coll := domain.NewLineItemCollection()
	item, err := domain.RestoreLineItem("row-1", "product", "p1", 2, nil)
	if err != nil {
		t.Fatalf("restore item: %v", err)
	}
	coll.Put(item)

	store := &stubStore{rows: map[string]*domain.LineItemCollection{"main": coll}}
	resolver := &countingResolver{unit: 300}
	reg := NewRegistry(resolver, Config{}, store, nil)

	ctx := context.Background()
	inst, err := reg.Instance(ctx, "main", pctxWith(t, "u1", "main", "USD", "en"))
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if inst.Len() != 1 {
		t.Fatalf("expected restored row, got %d", inst.Len())
	}

	total, err := inst.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 600 {
		t.Fatalf("expected 600, got %d", total)
	}

	// The store is only consulted on first use.
	if _, err := reg.Instance(ctx, "main", inst.PricingContext()); err != nil {
		t.Fatalf("instance: %v", err)
	}
	if store.restoreCalls != 1 {
		t.Fatalf("expected 1 restore, got %d", store.restoreCalls)
	}
}

func TestRegistryTreatsMissingCartAsEmpty(t *testing.T) {
	store := &stubStore{}
	reg := NewRegistry(&countingResolver{unit: 100}, Config{}, store, nil)

	inst, err := reg.Instance(context.Background(), "fresh", pctxWith(t, "", "fresh", "USD", "en"))
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if inst.Len() != 0 {
		t.Fatalf("expected empty cart, got %d rows", inst.Len())
	}
}

func TestRegistryPropagatesStoreFailure(t *testing.T) {
	store := &stubStore{restoreErr: errors.New("db down")}
	reg := NewRegistry(&countingResolver{unit: 100}, Config{}, store, nil)

	if _, err := reg.Instance(context.Background(), "main", pctxWith(t, "", "main", "USD", "en")); err == nil {
		t.Fatalf("expected restore failure")
	}
}

func TestRegistryPersistWritesThroughStore(t *testing.T) {
	store := &stubStore{}
	reg := NewRegistry(&countingResolver{unit: 100}, Config{}, store, nil)

	ctx := context.Background()
	inst, err := reg.Instance(ctx, "main", pctxWith(t, "", "main", "USD", "en"))
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if _, err := inst.Add("product", "p1", 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := reg.Persist(ctx, inst); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if store.saveCalls != 1 {
		t.Fatalf("expected 1 save, got %d", store.saveCalls)
	}
	if store.rows["main"].Len() != 1 {
		t.Fatalf("persisted collection missing rows")
	}
}
