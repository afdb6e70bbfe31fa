package saletype

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines the interface for SaleType persistence.
// GetByID loads the rules; Create and Update replace them.
type Repository interface {
	domain.CatalogRepository[*SaleType]

	// FirstForCompany returns the first type by (sequence, name) whose
	// company is companyID or none.
	FirstForCompany(ctx context.Context, companyID id.ID) (*SaleType, error)

	// First returns the first type by (sequence, name).
	First(ctx context.Context) (*SaleType, error)

	// Candidates returns the types usable in the company, ordered by
	// (sequence, name), with their rules.
	Candidates(ctx context.Context, companyID id.ID) ([]*SaleType, error)
}
