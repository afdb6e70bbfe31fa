package warehouse

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Service provides business logic for Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "warehouse",
		CodePrefix: "WH",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.keepSingleDefault)
	base.Hooks().OnBeforeUpdate(svc.keepSingleDefault)

	return svc
}

// keepSingleDefault clears other defaults of the same company.
func (s *Service) keepSingleDefault(ctx context.Context, wh *Warehouse) error {
	if !wh.IsDefault {
		return nil
	}
	return s.repo.ClearDefault(ctx, wh.CompanyID)
}

// GetDefault returns the company's default warehouse.
func (s *Service) GetDefault(ctx context.Context, companyID id.ID) (*Warehouse, error) {
	return s.repo.GetDefault(ctx, companyID)
}
