package product

import (
	"context"

	"cartpricing/internal/domain"
)

// Repository is the catalog side of the entity repository contract: batch
// lookup by id set plus the single-record operations the HTTP surface and
// importer need.
type Repository interface {
	FindManyByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// Loader adapts the repository's batch lookup to the entity loader shape the
// pricing registry expects.
func Loader(repo Repository) domain.EntityLoader {
	return func(ctx context.Context, ids []string) (map[string]any, error) {
		products, err := repo.FindManyByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		models := make(map[string]any, len(products))
		for id, p := range products {
			models[id] = p
		}
		return models, nil
	}
}
