package pricing

import (
	"context"

	"cartpricing/internal/domain"
)

// EntityResolver prices rows from their backing catalog entities. It batches
// lookups per buyable type, so a collection spanning T types costs T
// repository calls regardless of row count.
type EntityResolver struct {
	registry *domain.LoaderRegistry
}

func NewEntityResolver(registry *domain.LoaderRegistry) *EntityResolver {
	return &EntityResolver{registry: registry}
}

// ResolveMany prices the whole collection in one pass. A row whose entity
// cannot be located aborts the batch; no partial mapping is returned.
func (r *EntityResolver) ResolveMany(ctx context.Context, items *domain.LineItemCollection, pctx domain.PricingContext) (map[string]domain.ResolvedPrice, error) {
	out := make(map[string]domain.ResolvedPrice, items.Len())
	if items.Len() == 0 {
		return out, nil
	}

	if err := items.LoadModels(ctx, r.registry); err != nil {
		return nil, err
	}

	for _, item := range items.Items() {
		model := item.Model()
		if model == nil {
			return nil, domain.UnresolvablePriceError{
				RowID:       item.RowID(),
				BuyableType: item.BuyableType,
				BuyableID:   item.BuyableID,
				Reason:      domain.ErrModelNotFound,
			}
		}

		priceable, ok := model.(domain.Priceable)
		if !ok {
			return nil, domain.UnresolvablePriceError{
				RowID:       item.RowID(),
				BuyableType: item.BuyableType,
				BuyableID:   item.BuyableID,
				Reason:      domain.ErrNotPriceable,
			}
		}

		unit, err := priceable.Price(pctx)
		if err != nil {
			return nil, domain.UnresolvablePriceError{
				RowID:       item.RowID(),
				BuyableType: item.BuyableType,
				BuyableID:   item.BuyableID,
				Reason:      err,
			}
		}

		out[item.RowID()] = domain.NewResolvedPrice(unit, priceable.OriginalPrice())
	}

	return out, nil
}

// Resolve prices a single item through the same batch path.
func (r *EntityResolver) Resolve(ctx context.Context, item *domain.LineItem, pctx domain.PricingContext) (domain.ResolvedPrice, error) {
	coll := domain.NewLineItemCollection()
	coll.Put(item)

	results, err := r.ResolveMany(ctx, coll, pctx)
	if err != nil {
		return domain.ResolvedPrice{}, err
	}

	price, ok := results[item.RowID()]
	if !ok {
		return domain.ResolvedPrice{}, domain.UnresolvablePriceError{
			RowID:       item.RowID(),
			BuyableType: item.BuyableType,
			BuyableID:   item.BuyableID,
		}
	}
	return price, nil
}
