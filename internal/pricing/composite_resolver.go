package pricing

import (
	"context"
	"io"
	"log"

	"cartpricing/internal/domain"
)

// CompositeResolver asks an ordered list of inner resolvers and keeps the
// lowest unit price per row. An inner resolver that fails abstains for that
// call; its failure is logged, not propagated. Only when every branch
// abstains does the composite fail. On an equal lowest price the first
// resolver in list order wins.
type CompositeResolver struct {
	resolvers []Resolver
	logger    *log.Logger
}

func NewComposite(logger *log.Logger, resolvers ...Resolver) *CompositeResolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CompositeResolver{resolvers: resolvers, logger: logger}
}

func (r *CompositeResolver) Resolve(ctx context.Context, item *domain.LineItem, pctx domain.PricingContext) (domain.ResolvedPrice, error) {
	var best domain.ResolvedPrice
	found := false

	for i, inner := range r.resolvers {
		price, err := inner.Resolve(ctx, item, pctx)
		if err != nil {
			r.logger.Printf("composite: resolver %d abstained for row %s: %v", i, item.RowID(), err)
			continue
		}
		if !found || price.UnitPrice() < best.UnitPrice() {
			best = price
			found = true
		}
	}

	if !found {
		return domain.ResolvedPrice{}, domain.UnresolvablePriceError{
			RowID:       item.RowID(),
			BuyableType: item.BuyableType,
			BuyableID:   item.BuyableID,
		}
	}
	return best, nil
}

// ResolveMany calls each inner resolver's batch form once, never per item.
// A resolver that fails its batch call is skipped for the whole batch.
func (r *CompositeResolver) ResolveMany(ctx context.Context, items *domain.LineItemCollection, pctx domain.PricingContext) (map[string]domain.ResolvedPrice, error) {
	out := make(map[string]domain.ResolvedPrice, items.Len())
	if items.Len() == 0 {
		return out, nil
	}

	for i, inner := range r.resolvers {
		results, err := inner.ResolveMany(ctx, items, pctx)
		if err != nil {
			r.logger.Printf("composite: resolver %d abstained for batch of %d: %v", i, items.Len(), err)
			continue
		}
		for rowID, price := range results {
			current, ok := out[rowID]
			if !ok || price.UnitPrice() < current.UnitPrice() {
				out[rowID] = price
			}
		}
	}

	for _, item := range items.Items() {
		if _, ok := out[item.RowID()]; !ok {
			return nil, domain.UnresolvablePriceError{
				RowID:       item.RowID(),
				BuyableType: item.BuyableType,
				BuyableID:   item.BuyableID,
			}
		}
	}

	return out, nil
}
