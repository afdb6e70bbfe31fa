package product

import (
	"context"

	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
	"saletype/internal/domain/filter"
)

// SaleableDomain restricts a search to products that can be sold.
var SaleableDomain = filter.Domain{filter.Leaf{Field: "sale_ok", Operator: filter.Equal, Value: true}}

// Restrictor narrows a product search domain, e.g. to the products a
// sale type accepts.
type Restrictor interface {
	AddRulesToDomain(base filter.Domain) (filter.Domain, error)
}

// Service provides business logic for Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "product",
		CodePrefix: "PR",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// Search lists products matching f. A non-nil restrictor ANDs its
// constraints with f.Domain before the query runs.
func (s *Service) Search(ctx context.Context, f domain.ListFilter, restrictor Restrictor) (domain.ListResult[*Product], error) {
	if restrictor != nil {
		d, err := restrictor.AddRulesToDomain(f.Domain)
		if err != nil {
			return domain.ListResult[*Product]{}, err
		}
		f.Domain = d
	}
	return s.List(ctx, f)
}

// GetCategories maps product ids to category ids.
func (s *Service) GetCategories(ctx context.Context, productIDs []id.ID) (map[id.ID]id.ID, error) {
	if len(productIDs) == 0 {
		return map[id.ID]id.ID{}, nil
	}
	return s.repo.GetCategories(ctx, productIDs)
}
