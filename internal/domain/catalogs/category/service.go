package category

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Service provides business logic for Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "category",
		CodePrefix: "PC",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeUpdate(svc.checkCycle)

	return svc
}

// checkCycle rejects moving a category below one of its descendants.
func (s *Service) checkCycle(ctx context.Context, c *Category) error {
	if c.IsRoot() {
		return nil
	}
	parentID, err := id.Parse(*c.ParentID)
	if err != nil {
		return apperror.NewValidation("invalid parent id").WithDetail("field", "parentId")
	}
	path, err := s.repo.GetPath(ctx, parentID)
	if err != nil {
		return err
	}
	for _, node := range path {
		if node.ID == c.ID {
			return apperror.NewValidation("category hierarchy cannot contain cycles").
				WithDetail("field", "parentId")
		}
	}
	return nil
}
