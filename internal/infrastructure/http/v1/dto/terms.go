package dto

import (
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/terms"
)

// --- Payment term ---

// CreatePaymentTermRequest is the request body for creating a payment term.
type CreatePaymentTermRequest struct {
	CreateCatalogRequest
	DueDays int     `json:"dueDays" binding:"min=0"`
	Note    *string `json:"note"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePaymentTermRequest) ToEntity() *terms.PaymentTerm {
	p := &terms.PaymentTerm{Catalog: entity.NewCatalog(r.Code, r.Name), DueDays: r.DueDays, Note: r.Note}
	r.CreateCatalogRequest.ApplyTo(&p.Catalog)
	return p
}

// UpdatePaymentTermRequest is the request body for updating a payment term.
type UpdatePaymentTermRequest struct {
	UpdateCatalogRequest
	DueDays int     `json:"dueDays" binding:"min=0"`
	Note    *string `json:"note"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePaymentTermRequest) ApplyTo(p *terms.PaymentTerm) {
	r.UpdateCatalogRequest.ApplyTo(&p.Catalog)
	p.DueDays = r.DueDays
	p.Note = r.Note
}

// PaymentTermResponse is the response body for a payment term.
type PaymentTermResponse struct {
	CatalogResponse
	DueDays int     `json:"dueDays"`
	Note    *string `json:"note,omitempty"`
}

// FromPaymentTerm creates response DTO from domain entity.
func FromPaymentTerm(p *terms.PaymentTerm) *PaymentTermResponse {
	return &PaymentTermResponse{CatalogResponse: FromCatalog(p.Catalog), DueDays: p.DueDays, Note: p.Note}
}

// --- Pricelist ---

// CreatePricelistRequest is the request body for creating a pricelist.
type CreatePricelistRequest struct {
	CreateCatalogRequest
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	CompanyID    *id.ID `json:"companyId"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePricelistRequest) ToEntity() *terms.Pricelist {
	p := &terms.Pricelist{Catalog: entity.NewCatalog(r.Code, r.Name), CurrencyCode: r.CurrencyCode, CompanyID: r.CompanyID}
	r.CreateCatalogRequest.ApplyTo(&p.Catalog)
	return p
}

// UpdatePricelistRequest is the request body for updating a pricelist.
type UpdatePricelistRequest struct {
	UpdateCatalogRequest
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	CompanyID    *id.ID `json:"companyId"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePricelistRequest) ApplyTo(p *terms.Pricelist) {
	r.UpdateCatalogRequest.ApplyTo(&p.Catalog)
	p.CurrencyCode = r.CurrencyCode
	p.CompanyID = r.CompanyID
}

// PricelistResponse is the response body for a pricelist.
type PricelistResponse struct {
	CatalogResponse
	CurrencyCode string  `json:"currencyCode"`
	CompanyID    *string `json:"companyId,omitempty"`
}

// FromPricelist creates response DTO from domain entity.
func FromPricelist(p *terms.Pricelist) *PricelistResponse {
	return &PricelistResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		CurrencyCode:    p.CurrencyCode,
		CompanyID:       IDString(p.CompanyID),
	}
}

// --- Incoterm ---

// CreateIncotermRequest is the request body for creating an incoterm.
// The code carries the standard abbreviation and is mandatory.
type CreateIncotermRequest struct {
	CreateCatalogRequest
}

// ToEntity converts DTO to domain entity.
func (r *CreateIncotermRequest) ToEntity() *terms.Incoterm {
	i := &terms.Incoterm{Catalog: entity.NewCatalog(r.Code, r.Name)}
	r.CreateCatalogRequest.ApplyTo(&i.Catalog)
	return i
}

// UpdateIncotermRequest is the request body for updating an incoterm.
type UpdateIncotermRequest struct {
	UpdateCatalogRequest
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateIncotermRequest) ApplyTo(i *terms.Incoterm) {
	r.UpdateCatalogRequest.ApplyTo(&i.Catalog)
}

// FromIncoterm creates response DTO from domain entity.
func FromIncoterm(i *terms.Incoterm) *CatalogResponse {
	resp := FromCatalog(i.Catalog)
	return &resp
}

// --- Route ---

// CreateRouteRequest is the request body for creating a route.
type CreateRouteRequest struct {
	CreateCatalogRequest
	SaleSelectable bool `json:"saleSelectable"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateRouteRequest) ToEntity() *terms.Route {
	rt := &terms.Route{Catalog: entity.NewCatalog(r.Code, r.Name), SaleSelectable: r.SaleSelectable}
	r.CreateCatalogRequest.ApplyTo(&rt.Catalog)
	return rt
}

// UpdateRouteRequest is the request body for updating a route.
type UpdateRouteRequest struct {
	UpdateCatalogRequest
	SaleSelectable bool `json:"saleSelectable"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateRouteRequest) ApplyTo(rt *terms.Route) {
	r.UpdateCatalogRequest.ApplyTo(&rt.Catalog)
	rt.SaleSelectable = r.SaleSelectable
}

// RouteResponse is the response body for a route.
type RouteResponse struct {
	CatalogResponse
	SaleSelectable bool `json:"saleSelectable"`
}

// FromRoute creates response DTO from domain entity.
func FromRoute(rt *terms.Route) *RouteResponse {
	return &RouteResponse{CatalogResponse: FromCatalog(rt.Catalog), SaleSelectable: rt.SaleSelectable}
}
