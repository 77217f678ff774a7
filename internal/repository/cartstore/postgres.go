package cartstore

import (
	"context"

	"cartpricing/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Save replaces the instance's stored rows wholesale, preserving insertion
// order through an explicit position column.
func (r *postgresRepo) Save(ctx context.Context, instance string, items *domain.LineItemCollection) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_rows WHERE instance = $1`, instance); err != nil {
		return err
	}

	for pos, item := range items.Items() {
		options := item.Options
		if options == nil {
			options = map[string]string{}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_rows (instance, row_id, buyable_type, buyable_id, quantity, options, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, instance, item.RowID(), item.BuyableType, item.BuyableID, item.Quantity, options, pos); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Restore rebuilds the collection in stored order. An instance with no
// stored rows yields ErrNotFound.
func (r *postgresRepo) Restore(ctx context.Context, instance string) (*domain.LineItemCollection, error) {
	const q = `
SELECT row_id, buyable_type, buyable_id, quantity, options
FROM cart_rows
WHERE instance = $1
ORDER BY position
`
	rows, err := r.pool.Query(ctx, q, instance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coll := domain.NewLineItemCollection()
	for rows.Next() {
		var rowID, buyableType, buyableID string
		var quantity int
		var options map[string]string
		if err := rows.Scan(&rowID, &buyableType, &buyableID, &quantity, &options); err != nil {
			return nil, err
		}
		item, err := domain.RestoreLineItem(rowID, buyableType, buyableID, quantity, options)
		if err != nil {
			return nil, err
		}
		coll.Put(item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if coll.Len() == 0 {
		return nil, domain.ErrNotFound
	}
	return coll, nil
}

func (r *postgresRepo) Delete(ctx context.Context, instance string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_rows WHERE instance = $1`, instance)
	return err
}
