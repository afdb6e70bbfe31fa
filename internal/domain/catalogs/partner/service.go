package partner

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Service provides business logic for Partner catalog.
type Service struct {
	*domain.CatalogService[*Partner]
	repo Repository
}

// NewService creates a new Partner service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Partner]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "partner",
		CodePrefix: "CP",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkCommercialPartner)
	base.Hooks().OnBeforeUpdate(svc.checkCommercialPartner)
	base.Hooks().OnBeforeCreate(svc.checkEmailUnique)
	base.Hooks().OnBeforeUpdate(svc.checkEmailUnique)

	return svc
}

// checkCommercialPartner ensures the parent exists and is itself a
// commercial entity, so lookups never need more than one hop.
func (s *Service) checkCommercialPartner(ctx context.Context, p *Partner) error {
	if p.CommercialPartnerID == nil || id.IsNil(*p.CommercialPartnerID) {
		return nil
	}
	parent, err := s.repo.GetByID(ctx, *p.CommercialPartnerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("commercial partner not found").
				WithDetail("field", "commercialPartnerId")
		}
		return err
	}
	if !parent.IsCommercialEntity() {
		return apperror.NewValidation("commercial partner must be a top-level partner").
			WithDetail("field", "commercialPartnerId")
	}
	return nil
}

func (s *Service) checkEmailUnique(ctx context.Context, p *Partner) error {
	if p.Email == nil || *p.Email == "" {
		return nil
	}
	existing, err := s.repo.FindByEmail(ctx, *p.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID && existing.CommercialID() != p.CommercialID() {
		return apperror.NewConflict("partner with this email already exists").
			WithDetail("email", *p.Email)
	}
	return nil
}

// GetCommercial returns the commercial entity of p (p itself when top-level).
func (s *Service) GetCommercial(ctx context.Context, p *Partner) (*Partner, error) {
	if p.IsCommercialEntity() {
		return p, nil
	}
	return s.GetByID(ctx, p.CommercialID())
}

// AssignSaleType sets the partner's sale type for a company (nil company
// sets the default) and saves the partner.
func (s *Service) AssignSaleType(ctx context.Context, partnerID, companyID id.ID, saleTypeID *id.ID) (*Partner, error) {
	p, err := s.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	p.SetSaleTypeFor(companyID, saleTypeID)
	if err := s.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CountReferencingSaleType reports how many partners use the sale type.
func (s *Service) CountReferencingSaleType(ctx context.Context, saleTypeID id.ID) (int64, error) {
	return s.repo.CountReferencingSaleType(ctx, saleTypeID)
}
