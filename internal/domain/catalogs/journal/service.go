package journal

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Service provides business logic for Journal catalog.
type Service struct {
	*domain.CatalogService[*Journal]
	repo Repository
}

// NewService creates a new Journal service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Journal]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "journal",
		CodePrefix: "JR",
	})
	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// GetDefaultSale returns the company's default sale journal.
func (s *Service) GetDefaultSale(ctx context.Context, companyID id.ID) (*Journal, error) {
	return s.repo.GetDefault(ctx, companyID, TypeSale)
}
