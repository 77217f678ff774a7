package pricing

import (
	"context"

	"cartpricing/internal/domain"
)

// Resolver computes prices for cart rows. ResolveMany must either cover
// every row id present in the input or fail; partial results are a contract
// violation the cart treats as an error.
type Resolver interface {
	Resolve(ctx context.Context, item *domain.LineItem, pctx domain.PricingContext) (domain.ResolvedPrice, error)
	ResolveMany(ctx context.Context, items *domain.LineItemCollection, pctx domain.PricingContext) (map[string]domain.ResolvedPrice, error)
}
