package saletype

import (
	"context"
	"encoding/json"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
	"saletype/internal/domain/audit"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/domain/filter"
	"saletype/pkg/logger"
)

const entityName = "sale_type"

// JournalGetter loads journals.
type JournalGetter interface {
	GetByID(ctx context.Context, journalID id.ID) (*journal.Journal, error)
}

// WarehouseGetter loads warehouses.
type WarehouseGetter interface {
	GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error)
}

// RouteGetter loads routes.
type RouteGetter interface {
	GetByID(ctx context.Context, routeID id.ID) (*terms.Route, error)
}

// ServiceConfig configures the sale type service.
type ServiceConfig struct {
	Repo       Repository
	TxManager  tx.Manager
	Numerator  numerator.Generator
	Journals   JournalGetter
	Warehouses WarehouseGetter
	Routes     RouteGetter
	Audit      audit.Recorder // Optional
	Policy     MatchPolicy
}

// Service provides business logic for sale types.
type Service struct {
	*domain.CatalogService[*SaleType]
	repo       Repository
	journals   JournalGetter
	warehouses WarehouseGetter
	routes     RouteGetter
	audit      audit.Recorder
	classifier Classifier
}

// NewService creates a new SaleType service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*SaleType]{
		Repo:       cfg.Repo,
		TxManager:  cfg.TxManager,
		Numerator:  cfg.Numerator,
		EntityName: entityName,
		CodePrefix: "ST",
	})

	rec := cfg.Audit
	if rec == nil {
		rec = audit.Nop{}
	}

	svc := &Service{
		CatalogService: base,
		repo:           cfg.Repo,
		journals:       cfg.Journals,
		warehouses:     cfg.Warehouses,
		routes:         cfg.Routes,
		audit:          rec,
		classifier:     NewClassifier(cfg.Policy),
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)
	base.Hooks().OnAfterCreate(svc.recorder(audit.ActionCreate))
	base.Hooks().OnAfterUpdate(svc.recorder(audit.ActionUpdate))
	base.Hooks().OnAfterDelete(svc.recorder(audit.ActionDelete))

	return svc
}

// Classifier returns the configured classifier.
func (s *Service) Classifier() Classifier {
	return s.classifier
}

// prepare derives the company from the warehouse and checks references.
func (s *Service) prepare(ctx context.Context, t *SaleType) error {
	for _, r := range t.Rules {
		r.SaleTypeID = t.ID
		if id.IsNil(r.ID) {
			r.ID = id.New()
		}
	}
	SortRules(t.Rules)

	var whCompany *id.ID
	if t.WarehouseID != nil {
		wh, err := s.warehouses.GetByID(ctx, *t.WarehouseID)
		if err != nil {
			return referenceErr(err, "warehouseId")
		}
		c := wh.CompanyID
		whCompany = &c
	}
	t.CompanyID = whCompany

	if t.JournalID != nil {
		j, err := s.journals.GetByID(ctx, *t.JournalID)
		if err != nil {
			return referenceErr(err, "journalId")
		}
		if !j.IsSale() {
			return apperror.NewBusinessRule(apperror.CodeJournalNotSale, "billing journal must be a sale journal").
				WithDetail("journalId", j.ID.String()).
				WithDetail("journalType", string(j.Type))
		}
		if whCompany != nil && j.CompanyID != *whCompany {
			return apperror.NewBusinessRule(apperror.CodeCompanyMismatch, "journal and warehouse belong to different companies").
				WithDetail("journalId", j.ID.String()).
				WithDetail("warehouseId", t.WarehouseID.String())
		}
	}

	if t.RouteID != nil {
		rt, err := s.routes.GetByID(ctx, *t.RouteID)
		if err != nil {
			return referenceErr(err, "routeId")
		}
		if !rt.SaleSelectable {
			return apperror.NewValidation("route is not selectable on sale order lines").
				WithDetail("field", "routeId")
		}
	}
	return nil
}

func referenceErr(err error, field string) error {
	if apperror.IsNotFound(err) {
		return apperror.NewValidation("referenced record not found").
			WithDetail("field", field)
	}
	return err
}

func (s *Service) recorder(action audit.Action) domain.Hook[*SaleType] {
	return func(ctx context.Context, t *SaleType) error {
		return s.audit.Record(ctx, entityName, t.ID, action, snapshot(t))
	}
}

// snapshot renders the type as its JSON field map.
func snapshot(t *SaleType) map[string]any {
	data, err := json.Marshal(t)
	if err != nil {
		return map[string]any{"id": t.ID.String()}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"id": t.ID.String()}
	}
	return out
}

// Candidates returns the types usable in the company, in evaluation order.
func (s *Service) Candidates(ctx context.Context, companyID id.ID) ([]*SaleType, error) {
	types, err := s.repo.Candidates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	SortTypes(types)
	return types, nil
}

// Match returns the candidate type the lines belong to, or nil.
func (s *Service) Match(ctx context.Context, companyID id.ID, lines Lines) (*SaleType, error) {
	types, err := s.Candidates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	t := s.classifier.Match(types, lines)
	if t != nil {
		logger.Debug(ctx, "sale type matched", "sale_type_id", t.ID.String(), "policy", string(s.classifier.Policy))
	}
	return t, nil
}

// ProductDomain restricts a product search domain to the type's rules.
func (s *Service) ProductDomain(ctx context.Context, typeID id.ID, base filter.Domain) (filter.Domain, error) {
	t, err := s.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return t.AddRulesToDomain(base)
}

// AddRule appends a rule to the type and saves it.
func (s *Service) AddRule(ctx context.Context, typeID id.ID, r *Rule) (*SaleType, error) {
	t, err := s.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if id.IsNil(r.ID) {
		r.ID = id.New()
	}
	t.AddRule(r)
	if err := s.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RemoveRule deletes a rule from the type and saves it.
func (s *Service) RemoveRule(ctx context.Context, typeID, ruleID id.ID) (*SaleType, error) {
	t, err := s.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	kept := t.Rules[:0]
	found := false
	for _, r := range t.Rules {
		if r.ID == ruleID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil, apperror.NewNotFound("sale_type_rule", ruleID.String())
	}
	t.Rules = kept
	if err := s.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// FirstForCompany implements TypeFinder.
func (s *Service) FirstForCompany(ctx context.Context, companyID id.ID) (*SaleType, error) {
	return s.repo.FirstForCompany(ctx, companyID)
}

// First implements TypeFinder.
func (s *Service) First(ctx context.Context) (*SaleType, error) {
	return s.repo.First(ctx)
}

var _ TypeFinder = (*Service)(nil)
