// Package terms provides the small reference catalogs a sale type points
// at: payment terms, pricelists, incoterms and routes.
package terms

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// PaymentTerm defines when an invoice falls due.
type PaymentTerm struct {
	entity.Catalog

	// DueDays after the invoice date
	DueDays int `db:"due_days" json:"dueDays"`

	Note *string `db:"note" json:"note,omitempty"`
}

// Validate implements entity.Validatable interface.
func (p *PaymentTerm) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if p.DueDays < 0 {
		return apperror.NewValidation("due days cannot be negative").
			WithDetail("field", "dueDays")
	}
	return nil
}

// Pricelist selects the prices applied on an order.
type Pricelist struct {
	entity.Catalog

	// CurrencyCode is ISO 4217 (e.g. "EUR")
	CurrencyCode string `db:"currency_code" json:"currencyCode"`

	// CompanyID restricts the pricelist to one company; nil means shared
	CompanyID *id.ID `db:"company_id" json:"companyId,omitempty"`
}

// Validate implements entity.Validatable interface.
func (p *Pricelist) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if len(p.CurrencyCode) != 3 {
		return apperror.NewValidation("currency code must be 3 letters").
			WithDetail("field", "currencyCode").
			WithDetail("value", p.CurrencyCode)
	}
	return nil
}

// Incoterm is an international commercial term (EXW, FOB, DAP...).
// The catalog code holds the standard abbreviation.
type Incoterm struct {
	entity.Catalog
}

// Validate implements entity.Validatable interface.
func (i *Incoterm) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}
	if i.Code == "" {
		return apperror.NewValidation("incoterm code is required").
			WithDetail("field", "code")
	}
	return nil
}

// Route is a logistic route order lines can be shipped through.
type Route struct {
	entity.Catalog

	// SaleSelectable allows the route on sale order lines
	SaleSelectable bool `db:"sale_selectable" json:"saleSelectable"`
}

// Validate implements entity.Validatable interface.
func (r *Route) Validate(ctx context.Context) error {
	return r.Catalog.Validate(ctx)
}
