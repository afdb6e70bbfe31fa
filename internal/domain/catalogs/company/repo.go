package company

import (
	"context"

	"saletype/internal/domain"
)

// Repository defines the interface for company storage.
type Repository interface {
	domain.CatalogRepository[*Company]

	// GetDefault retrieves the company flagged as default.
	GetDefault(ctx context.Context) (*Company, error)

	// ClearDefault removes the default flag from all companies.
	ClearDefault(ctx context.Context) error
}
