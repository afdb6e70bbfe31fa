package journal

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines the interface for Journal persistence.
type Repository interface {
	domain.CatalogRepository[*Journal]

	// GetDefault returns the first journal of the type in the company.
	GetDefault(ctx context.Context, companyID id.ID, journalType JournalType) (*Journal, error)
}
