package product

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetCategories maps each given product id to its category id.
	// Unknown ids are absent from the result.
	GetCategories(ctx context.Context, productIDs []id.ID) (map[id.ID]id.ID, error)
}
