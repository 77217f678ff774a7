package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU           string
	Name          string
	Currency      string
	OriginalCents int64
	Prices        []priceSeed
}

type priceSeed struct {
	Currency string
	Locale   string
	Cents    int64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:           "SKU-DEMO-TSHIRT",
			Name:          "Demo T-Shirt",
			Currency:      "USD",
			OriginalCents: 2499,
			Prices: []priceSeed{
				{Currency: "USD", Cents: 1999},
				{Currency: "EUR", Cents: 1899},
				{Currency: "EUR", Locale: "de", Cents: 1849},
			},
		},
		{
			SKU:           "SKU-DEMO-MUG",
			Name:          "Demo Mug",
			Currency:      "USD",
			OriginalCents: 1499,
			Prices: []priceSeed{
				{Currency: "USD", Cents: 1299},
				{Currency: "EUR", Cents: 1199},
			},
		},
		{
			SKU:           "SKU-DEMO-POSTER",
			Name:          "Demo Poster",
			Currency:      "USD",
			OriginalCents: 999,
			Prices: []priceSeed{
				{Currency: "USD", Cents: 999},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, sku, name, currency, original_price_cents)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    currency = EXCLUDED.currency,
    original_price_cents = EXCLUDED.original_price_cents
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, uuid.NewString(), p.SKU, p.Name, p.Currency, p.OriginalCents).Scan(&id); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `DELETE FROM product_prices WHERE product_id = $1`, id); err != nil {
		return err
	}
	for _, price := range p.Prices {
		if _, err := pool.Exec(ctx, `
INSERT INTO product_prices (product_id, currency, locale, price_cents)
VALUES ($1, $2, NULLIF($3, ''), $4)
`, id, price.Currency, price.Locale, price.Cents); err != nil {
			return err
		}
	}
	return nil
}
