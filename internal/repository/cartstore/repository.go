package cartstore

import (
	"context"

	"cartpricing/internal/domain"
)

// Repository persists cart rows as a plain row array keyed by instance name.
// Restored collections are cold: no resolved prices, no loaded models.
type Repository interface {
	Save(ctx context.Context, instance string, items *domain.LineItemCollection) error
	Restore(ctx context.Context, instance string) (*domain.LineItemCollection, error)
	Delete(ctx context.Context, instance string) error
}
