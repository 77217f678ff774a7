package domain

import (
	"context"
	"fmt"
	"sort"
)

// EntityLoader fetches the catalog records of one buyable type for a set of
// ids in a single call. Missing ids are simply absent from the returned map,
// which keeps them distinguishable from present-but-unpriceable records.
type EntityLoader func(ctx context.Context, ids []string) (map[string]any, error)

// LoaderRegistry maps each buyable type tag to its entity loader. The set of
// supported entity kinds is fixed at wiring time, not discovered at runtime.
type LoaderRegistry struct {
	loaders map[string]EntityLoader
}

func NewLoaderRegistry() *LoaderRegistry {
	return &LoaderRegistry{loaders: make(map[string]EntityLoader)}
}

func (r *LoaderRegistry) Register(buyableType string, loader EntityLoader) {
	r.loaders[buyableType] = loader
}

func (r *LoaderRegistry) Loader(buyableType string) (EntityLoader, bool) {
	loader, ok := r.loaders[buyableType]
	return loader, ok
}

// Types returns the registered type tags in sorted order.
func (r *LoaderRegistry) Types() []string {
	types := make([]string, 0, len(r.loaders))
	for t := range r.loaders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// LineItemCollection is an insertion-ordered mapping of row id to line item.
// It is exclusively owned by one cart instance.
type LineItemCollection struct {
	order []string
	items map[string]*LineItem
}

func NewLineItemCollection() *LineItemCollection {
	return &LineItemCollection{items: make(map[string]*LineItem)}
}

// Put inserts the item, or replaces an existing item with the same row id
// in place without disturbing insertion order.
func (c *LineItemCollection) Put(item *LineItem) {
	if _, ok := c.items[item.rowID]; !ok {
		c.order = append(c.order, item.rowID)
	}
	c.items[item.rowID] = item
}

func (c *LineItemCollection) Get(rowID string) (*LineItem, bool) {
	item, ok := c.items[rowID]
	return item, ok
}

func (c *LineItemCollection) Has(rowID string) bool {
	_, ok := c.items[rowID]
	return ok
}

func (c *LineItemCollection) Remove(rowID string) bool {
	if _, ok := c.items[rowID]; !ok {
		return false
	}
	delete(c.items, rowID)
	for i, id := range c.order {
		if id == rowID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *LineItemCollection) Len() int { return len(c.items) }

// Items returns the items in insertion order.
func (c *LineItemCollection) Items() []*LineItem {
	out := make([]*LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *LineItemCollection) RowIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ByBuyableID returns every item referencing the given entity id, in
// insertion order.
func (c *LineItemCollection) ByBuyableID(buyableID string) []*LineItem {
	var out []*LineItem
	for _, item := range c.Items() {
		if item.BuyableID == buyableID {
			out = append(out, item)
		}
	}
	return out
}

// OfType returns every item of the given buyable type, in insertion order.
func (c *LineItemCollection) OfType(buyableType string) []*LineItem {
	var out []*LineItem
	for _, item := range c.Items() {
		if item.BuyableType == buyableType {
			out = append(out, item)
		}
	}
	return out
}

// GroupByType partitions the items by buyable type, preserving insertion
// order within each group.
func (c *LineItemCollection) GroupByType() map[string][]*LineItem {
	groups := make(map[string][]*LineItem)
	for _, item := range c.Items() {
		groups[item.BuyableType] = append(groups[item.BuyableType], item)
	}
	return groups
}

func (c *LineItemCollection) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// LoadModels assigns backing entities to every item that lacks one, issuing
// exactly one loader call per distinct buyable type. Types without a
// registered loader are skipped; their items stay modelless and fail
// explicitly at price resolution instead of silently defaulting.
func (c *LineItemCollection) LoadModels(ctx context.Context, registry *LoaderRegistry) error {
	pending := make(map[string][]*LineItem)
	for _, item := range c.Items() {
		if !item.ModelLoaded() {
			pending[item.BuyableType] = append(pending[item.BuyableType], item)
		}
	}

	// Deterministic type order regardless of map iteration.
	types := make([]string, 0, len(pending))
	for t := range pending {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, buyableType := range types {
		loader, ok := registry.Loader(buyableType)
		if !ok {
			continue
		}

		group := pending[buyableType]
		seen := make(map[string]struct{}, len(group))
		ids := make([]string, 0, len(group))
		for _, item := range group {
			if _, dup := seen[item.BuyableID]; dup {
				continue
			}
			seen[item.BuyableID] = struct{}{}
			ids = append(ids, item.BuyableID)
		}

		models, err := loader(ctx, ids)
		if err != nil {
			return fmt.Errorf("load %s models: %w", buyableType, err)
		}

		for _, item := range group {
			if model, ok := models[item.BuyableID]; ok {
				item.SetModel(model)
			}
		}
	}

	return nil
}
