package cart

import (
	"context"
	"io"
	"log"

	"cartpricing/internal/domain"
	"cartpricing/internal/pricing"
)

// Config tunes per-instance cart policy. It is passed in explicitly so
// resolution behavior stays pure and testable.
type Config struct {
	// MaxItems caps the number of distinct rows per instance, 0 means no cap.
	MaxItems int
	// RejectDuplicates makes adding an already-present row an error instead
	// of merging quantities.
	RejectDuplicates bool
}

// Instance is one named cart. It owns its line item collection and pricing
// context and re-establishes its resolved state lazily: prices are fetched
// in one batch the first time a total or unit price is read under the
// current context fingerprint, then served from the items until contents or
// context change.
//
// An Instance is exclusively owned by one logical cart session; concurrent
// mutation is the caller's responsibility to serialize.
type Instance struct {
	name     string
	items    *domain.LineItemCollection
	pctx     domain.PricingContext
	resolver pricing.Resolver
	cfg      Config
	logger   *log.Logger

	pricesResolved bool
	fingerprint    string
}

func New(name string, resolver pricing.Resolver, pctx domain.PricingContext, cfg Config, logger *log.Logger) *Instance {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Instance{
		name:     name,
		items:    domain.NewLineItemCollection(),
		pctx:     pctx,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

func (c *Instance) Name() string { return c.name }

func (c *Instance) PricingContext() domain.PricingContext { return c.pctx }

// SetPricingContext switches the context the next resolution runs under.
// Cached prices survive only if the fingerprint is unchanged.
func (c *Instance) SetPricingContext(pctx domain.PricingContext) {
	if pctx.Fingerprint() != c.fingerprint {
		c.pricesResolved = false
	}
	c.pctx = pctx
}

// Add puts a new row into the cart, or merges quantity into the existing row
// when the same purchase is added again. Under RejectDuplicates the second
// add fails instead.
func (c *Instance) Add(buyableType, buyableID string, quantity int, options map[string]string) (*domain.LineItem, error) {
	item, err := domain.NewLineItem(buyableType, buyableID, quantity, options)
	if err != nil {
		return nil, err
	}

	if existing, ok := c.items.Get(item.RowID()); ok {
		if c.cfg.RejectDuplicates {
			return nil, domain.DuplicateItemError{Instance: c.name, RowID: item.RowID()}
		}
		if err := existing.SetQuantity(existing.Quantity + quantity); err != nil {
			return nil, err
		}
		c.invalidate()
		return existing, nil
	}

	if c.cfg.MaxItems > 0 && c.items.Len() >= c.cfg.MaxItems {
		return nil, domain.MaxItemsExceededError{Instance: c.name, Count: c.items.Len(), Max: c.cfg.MaxItems}
	}

	c.arm(item)
	c.items.Put(item)
	c.invalidate()
	return item, nil
}

// UpdateQuantity replaces a row's quantity.
func (c *Instance) UpdateQuantity(rowID string, quantity int) error {
	item, ok := c.items.Get(rowID)
	if !ok {
		return domain.InvalidRowIDError{Instance: c.name, RowID: rowID}
	}
	if err := item.SetQuantity(quantity); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Remove deletes a row.
func (c *Instance) Remove(rowID string) error {
	if !c.items.Remove(rowID) {
		return domain.InvalidRowIDError{Instance: c.name, RowID: rowID}
	}
	c.invalidate()
	return nil
}

// Get returns a row by id.
func (c *Instance) Get(rowID string) (*domain.LineItem, error) {
	item, ok := c.items.Get(rowID)
	if !ok {
		return nil, domain.InvalidRowIDError{Instance: c.name, RowID: rowID}
	}
	return item, nil
}

// Items returns the rows in insertion order. Reading them does not force
// resolution; each item's price accessors trigger it on demand.
func (c *Instance) Items() []*domain.LineItem { return c.items.Items() }

func (c *Instance) Len() int { return c.items.Len() }

func (c *Instance) TotalQuantity() int { return c.items.TotalQuantity() }

// Collection exposes the owned collection for persistence; callers must not
// mutate it structurally.
func (c *Instance) Collection() *domain.LineItemCollection { return c.items }

// UnitPrice returns the resolved unit price for one row, resolving the whole
// collection first if needed.
func (c *Instance) UnitPrice(ctx context.Context, rowID string) (int64, error) {
	item, ok := c.items.Get(rowID)
	if !ok {
		return 0, domain.InvalidRowIDError{Instance: c.name, RowID: rowID}
	}
	if err := c.ensureResolved(ctx); err != nil {
		return 0, err
	}
	return item.UnitPrice(), nil
}

// Subtotal returns unit price times quantity for one row.
func (c *Instance) Subtotal(ctx context.Context, rowID string) (int64, error) {
	item, ok := c.items.Get(rowID)
	if !ok {
		return 0, domain.InvalidRowIDError{Instance: c.name, RowID: rowID}
	}
	if err := c.ensureResolved(ctx); err != nil {
		return 0, err
	}
	return item.Subtotal(), nil
}

// Total sums the subtotals of every row.
func (c *Instance) Total(ctx context.Context) (int64, error) {
	if err := c.ensureResolved(ctx); err != nil {
		return 0, err
	}
	var total int64
	for _, item := range c.items.Items() {
		total += item.Subtotal()
	}
	return total, nil
}

// Restore replaces the collection wholesale with one rebuilt from storage.
// The restored rows are cold: no resolved prices, no loaded models.
func (c *Instance) Restore(items *domain.LineItemCollection) {
	c.items = items
	for _, item := range c.items.Items() {
		c.arm(item)
	}
	c.invalidate()
}

// ensureResolved is the resolution gate. A cache hit is fingerprint string
// equality while the resolved flag is set; anything else runs one batch
// resolution over the full collection. A failed batch leaves the flag false
// so the next access retries from scratch.
func (c *Instance) ensureResolved(ctx context.Context) error {
	fp := c.pctx.Fingerprint()
	if c.pricesResolved && c.fingerprint == fp {
		return nil
	}

	if c.items.Len() == 0 {
		c.pricesResolved = true
		c.fingerprint = fp
		return nil
	}

	results, err := c.resolver.ResolveMany(ctx, c.items, c.pctx)
	if err != nil {
		return err
	}

	for _, item := range c.items.Items() {
		price, ok := results[item.RowID()]
		if !ok {
			// Resolver contract violation: every input row must be covered.
			return domain.UnresolvablePriceError{
				RowID:       item.RowID(),
				BuyableType: item.BuyableType,
				BuyableID:   item.BuyableID,
			}
		}
		item.SetResolvedPrice(price)
	}

	c.pricesResolved = true
	c.fingerprint = fp
	return nil
}

func (c *Instance) invalidate() {
	c.pricesResolved = false
}

func (c *Instance) arm(item *domain.LineItem) {
	item.ArmTrigger(func() {
		if err := c.ensureResolved(context.Background()); err != nil {
			c.logger.Printf("cart %s: deferred resolution: %v", c.name, err)
		}
	})
}
