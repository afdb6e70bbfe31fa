package saletype

import (
	"context"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/partner"
	"saletype/pkg/logger"
)

// Source tells which fallback step resolved a type.
type Source string

const (
	SourceNone       Source = ""
	SourcePartner    Source = "partner"
	SourceCommercial Source = "commercial_partner"
	SourceContext    Source = "context_default"
	SourceCompany    Source = "company"
	SourceAny        Source = "first"
)

// PartnerGetter loads partners with their company sale types.
type PartnerGetter interface {
	GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error)
}

// TypeFinder looks up fallback types.
type TypeFinder interface {
	// Exists reports whether a type exists.
	Exists(ctx context.Context, typeID id.ID) (bool, error)

	// FirstForCompany returns the first type by sequence whose company is
	// companyID or none. NotFound when there is none.
	FirstForCompany(ctx context.Context, companyID id.ID) (*SaleType, error)

	// First returns the first type by sequence. NotFound when there is none.
	First(ctx context.Context) (*SaleType, error)
}

// Request describes the document a type is resolved for.
type Request struct {
	PartnerID *id.ID
	CompanyID id.ID

	// OnCreate allows the company and system fallbacks even when a
	// partner is set. A later partner change keeps the current type.
	OnCreate bool
}

// Resolution is the outcome of Resolve. TypeID is nil with SourceNone.
type Resolution struct {
	TypeID id.ID
	Source Source
}

// Found reports whether a type was resolved.
func (r Resolution) Found() bool {
	return r.Source != SourceNone
}

// Resolver resolves the effective sale type of a new document.
type Resolver struct {
	partners PartnerGetter
	types    TypeFinder
}

// NewResolver creates a resolver.
func NewResolver(partners PartnerGetter, types TypeFinder) *Resolver {
	return &Resolver{partners: partners, types: types}
}

// Resolve tries, first non-empty wins: the partner's type for the company,
// the commercial partner's type for the company, the context default, the
// first type of the company or global, the first type at all.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if id.IsSet(req.PartnerID) {
		p, err := r.partners.GetByID(ctx, *req.PartnerID)
		if err != nil {
			return Resolution{}, err
		}
		if t := p.SaleTypeFor(req.CompanyID); t != nil {
			return Resolution{TypeID: *t, Source: SourcePartner}, nil
		}
		if !p.IsCommercialEntity() {
			cp, err := r.partners.GetByID(ctx, p.CommercialID())
			if err != nil {
				return Resolution{}, err
			}
			if t := cp.SaleTypeFor(req.CompanyID); t != nil {
				return Resolution{TypeID: *t, Source: SourceCommercial}, nil
			}
		}
	}

	if typeID, ok := appctx.GetDefaultSaleType(ctx); ok {
		exists, err := r.types.Exists(ctx, typeID)
		if err != nil {
			return Resolution{}, err
		}
		if exists {
			return Resolution{TypeID: typeID, Source: SourceContext}, nil
		}
		logger.Warn(ctx, "default sale type from context not found", "sale_type_id", typeID.String())
	}

	hasPartner := id.IsSet(req.PartnerID)
	if hasPartner && !req.OnCreate {
		return Resolution{}, nil
	}

	if !id.IsNil(req.CompanyID) {
		t, err := r.types.FirstForCompany(ctx, req.CompanyID)
		if err == nil {
			return Resolution{TypeID: t.ID, Source: SourceCompany}, nil
		}
		if !apperror.IsNotFound(err) {
			return Resolution{}, err
		}
	}

	t, err := r.types.First(ctx)
	if err == nil {
		return Resolution{TypeID: t.ID, Source: SourceAny}, nil
	}
	if !apperror.IsNotFound(err) {
		return Resolution{}, err
	}
	return Resolution{}, nil
}
