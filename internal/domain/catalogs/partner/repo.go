package partner

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines the interface for Partner persistence.
// Create, Update and GetByID also persist and load CompanySaleTypes.
type Repository interface {
	domain.CatalogRepository[*Partner]

	// FindByEmail retrieves a partner by email.
	FindByEmail(ctx context.Context, email string) (*Partner, error)

	// CountReferencingSaleType counts partners using the sale type as
	// default or as a company override.
	CountReferencingSaleType(ctx context.Context, saleTypeID id.ID) (int64, error)
}
