package product

import (
	"context"
	"errors"
	"io"
	"log"

	"cartpricing/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// FindManyByIDs fetches a set of products and their price rows in one pass.
// Missing ids are absent from the result, not an error; the caller decides
// whether absence is fatal.
func (r *postgresRepo) FindManyByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	result := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const q = `
SELECT id::text, sku, name, currency, original_price_cents, created_at
FROM products
WHERE id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("product repo: find many ids=%d error=%v", len(ids), err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Currency, &p.OriginalPriceCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		result[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPrices(ctx, result); err != nil {
		return nil, err
	}

	r.logger.Printf("product repo: find many ids=%d found=%d", len(ids), len(result))
	return result, nil
}

func (r *postgresRepo) attachPrices(ctx context.Context, products map[string]*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}

	const q = `
SELECT product_id::text, currency, COALESCE(locale, ''), price_cents
FROM product_prices
WHERE product_id = ANY($1)
ORDER BY product_id, currency, locale NULLS LAST
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var price domain.ProductPrice
		if err := rows.Scan(&productID, &price.Currency, &price.Locale, &price.Cents); err != nil {
			return err
		}
		if p, ok := products[productID]; ok {
			p.Prices = append(p.Prices, price)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, sku, name, currency, original_price_cents, created_at
FROM products
WHERE id = $1
`
	return r.fetchOne(ctx, q, id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	const q = `
SELECT id::text, sku, name, currency, original_price_cents, created_at
FROM products
WHERE sku = $1
`
	return r.fetchOne(ctx, q, sku)
}

func (r *postgresRepo) fetchOne(ctx context.Context, query, arg string) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.SKU, &p.Name, &p.Currency, &p.OriginalPriceCents, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	byID := map[string]*domain.Product{p.ID: &p}
	if err := r.attachPrices(ctx, byID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes the product and replaces its price rows wholesale.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (id, sku, name, currency, original_price_cents)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    currency = EXCLUDED.currency,
    original_price_cents = EXCLUDED.original_price_cents
RETURNING id::text, created_at
`
	if err := tx.QueryRow(ctx, q, p.ID, p.SKU, p.Name, p.Currency, p.OriginalPriceCents).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_prices WHERE product_id = $1`, p.ID); err != nil {
		return nil, err
	}
	for _, price := range p.Prices {
		if _, err := tx.Exec(ctx, `
INSERT INTO product_prices (product_id, currency, locale, price_cents)
VALUES ($1, $2, NULLIF($3, ''), $4)
`, p.ID, price.Currency, price.Locale, price.Cents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("product repo: upsert sku=%s prices=%d", p.SKU, len(p.Prices))
	return &p, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, sku, name, currency, original_price_cents, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	byID := make(map[string]*domain.Product)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Currency, &p.OriginalPriceCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		byID[result[i].ID] = &result[i]
	}
	if err := r.attachPrices(ctx, byID); err != nil {
		return nil, err
	}
	return result, nil
}
