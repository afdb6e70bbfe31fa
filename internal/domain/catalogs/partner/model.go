// Package partner provides the Partner catalog: customers and their
// contacts. A contact belongs to a commercial entity (the top-level
// company record) which is used as a fallback for its settings.
package partner

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// Partner represents a customer or one of its contacts.
type Partner struct {
	entity.Catalog

	// IsCompany marks a legal entity as opposed to a person
	IsCompany bool `db:"is_company" json:"isCompany"`

	// CommercialPartnerID is nil when the partner is its own commercial entity
	CommercialPartnerID *id.ID `db:"commercial_partner_id" json:"commercialPartnerId,omitempty"`

	// CompanyID restricts the partner to one company; nil means shared
	CompanyID *id.ID `db:"company_id" json:"companyId,omitempty"`

	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Lang is the language of outgoing mail (e.g. "fr_FR")
	Lang *string `db:"lang" json:"lang,omitempty"`

	// SaleTypeID is the default sale order type for every company
	SaleTypeID *id.ID `db:"sale_type_id" json:"saleTypeId,omitempty"`

	// CompanySaleTypes override SaleTypeID per company
	CompanySaleTypes []CompanySaleType `db:"-" json:"companySaleTypes,omitempty"`
}

// CompanySaleType is the sale type a partner uses within one company.
type CompanySaleType struct {
	CompanyID  id.ID `db:"company_id" json:"companyId"`
	SaleTypeID id.ID `db:"sale_type_id" json:"saleTypeId"`
}

// NewPartner creates a new Partner with required fields.
func NewPartner(code, name string, isCompany bool) *Partner {
	return &Partner{
		Catalog:   entity.NewCatalog(code, name),
		IsCompany: isCompany,
	}
}

// Validate implements entity.Validatable interface.
func (p *Partner) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.CommercialPartnerID != nil && *p.CommercialPartnerID == p.ID {
		return apperror.NewValidation("partner cannot be its own parent commercial entity").
			WithDetail("field", "commercialPartnerId")
	}

	if p.Email != nil && *p.Email != "" && !entity.IsValidEmail(*p.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if p.Lang != nil && *p.Lang != "" && !entity.IsValidLang(*p.Lang) {
		return apperror.NewValidation("invalid language tag").
			WithDetail("field", "lang").
			WithDetail("value", *p.Lang)
	}

	seen := make(map[id.ID]struct{}, len(p.CompanySaleTypes))
	for _, cst := range p.CompanySaleTypes {
		if id.IsNil(cst.CompanyID) || id.IsNil(cst.SaleTypeID) {
			return apperror.NewValidation("company sale type requires company and sale type").
				WithDetail("field", "companySaleTypes")
		}
		if _, dup := seen[cst.CompanyID]; dup {
			return apperror.NewValidation("duplicate company in company sale types").
				WithDetail("field", "companySaleTypes").
				WithDetail("companyId", cst.CompanyID.String())
		}
		seen[cst.CompanyID] = struct{}{}
	}

	return nil
}

// CommercialID returns the id of the commercial entity.
func (p *Partner) CommercialID() id.ID {
	if id.IsSet(p.CommercialPartnerID) {
		return *p.CommercialPartnerID
	}
	return p.ID
}

// IsCommercialEntity reports whether the partner has no parent entity.
func (p *Partner) IsCommercialEntity() bool {
	return p.CommercialID() == p.ID
}

// SaleTypeFor returns the partner's sale type in the given company:
// the company override if any, otherwise the default. Nil if none.
func (p *Partner) SaleTypeFor(companyID id.ID) *id.ID {
	if !id.IsNil(companyID) {
		for _, cst := range p.CompanySaleTypes {
			if cst.CompanyID == companyID {
				v := cst.SaleTypeID
				return &v
			}
		}
	}
	if id.IsSet(p.SaleTypeID) {
		v := *p.SaleTypeID
		return &v
	}
	return nil
}

// SetSaleTypeFor sets the override for a company, or the default when
// companyID is nil. A nil typeID clears it.
func (p *Partner) SetSaleTypeFor(companyID id.ID, typeID *id.ID) {
	if id.IsNil(companyID) {
		p.SaleTypeID = typeID
		return
	}
	for i, cst := range p.CompanySaleTypes {
		if cst.CompanyID == companyID {
			if typeID == nil {
				p.CompanySaleTypes = append(p.CompanySaleTypes[:i], p.CompanySaleTypes[i+1:]...)
			} else {
				p.CompanySaleTypes[i].SaleTypeID = *typeID
			}
			return
		}
	}
	if typeID != nil {
		p.CompanySaleTypes = append(p.CompanySaleTypes, CompanySaleType{CompanyID: companyID, SaleTypeID: *typeID})
	}
}

// LangOr returns the partner language or fallback.
func (p *Partner) LangOr(fallback string) string {
	if p.Lang != nil && *p.Lang != "" {
		return *p.Lang
	}
	return fallback
}
