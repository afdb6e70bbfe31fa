package company

import (
	"context"

	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Service provides business logic for Company catalog.
type Service struct {
	*domain.CatalogService[*Company]
	repo Repository
}

// NewService creates a new Company service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Company]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "company",
		CodePrefix: "CO",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.keepSingleDefault)
	base.Hooks().OnBeforeUpdate(svc.keepSingleDefault)

	return svc
}

func (s *Service) keepSingleDefault(ctx context.Context, c *Company) error {
	if !c.IsDefault {
		return nil
	}
	return s.repo.ClearDefault(ctx)
}

// GetDefault retrieves the default company.
func (s *Service) GetDefault(ctx context.Context) (*Company, error) {
	return s.repo.GetDefault(ctx)
}
