package warehouse

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// ClearDefault clears the default flag on the company's warehouses.
	ClearDefault(ctx context.Context, companyID id.ID) error

	// GetDefault returns the company's default warehouse.
	GetDefault(ctx context.Context, companyID id.ID) (*Warehouse, error)
}
