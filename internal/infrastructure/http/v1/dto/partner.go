package dto

import (
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/partner"
)

// --- Request DTOs ---

// PartnerFields are the editable partner fields.
type PartnerFields struct {
	IsCompany           bool    `json:"isCompany"`
	CommercialPartnerID *id.ID  `json:"commercialPartnerId"`
	CompanyID           *id.ID  `json:"companyId"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Lang                *string `json:"lang"`
	SaleTypeID          *id.ID  `json:"saleTypeId"`

	CompanySaleTypes []CompanySaleTypeRequest `json:"companySaleTypes" binding:"omitempty,dive"`
}

// CompanySaleTypeRequest sets the partner sale type within one company.
type CompanySaleTypeRequest struct {
	CompanyID  id.ID `json:"companyId" binding:"required"`
	SaleTypeID id.ID `json:"saleTypeId" binding:"required"`
}

func (f *PartnerFields) applyTo(p *partner.Partner) {
	p.IsCompany = f.IsCompany
	p.CommercialPartnerID = f.CommercialPartnerID
	p.CompanyID = f.CompanyID
	p.Email = f.Email
	p.Phone = f.Phone
	p.Lang = f.Lang
	p.SaleTypeID = f.SaleTypeID

	if f.CompanySaleTypes != nil {
		p.CompanySaleTypes = make([]partner.CompanySaleType, len(f.CompanySaleTypes))
		for i, cst := range f.CompanySaleTypes {
			p.CompanySaleTypes[i] = partner.CompanySaleType{CompanyID: cst.CompanyID, SaleTypeID: cst.SaleTypeID}
		}
	}
}

// CreatePartnerRequest is the request body for creating a partner.
type CreatePartnerRequest struct {
	CreateCatalogRequest
	PartnerFields
}

// ToEntity converts DTO to domain entity.
func (r *CreatePartnerRequest) ToEntity() *partner.Partner {
	p := partner.NewPartner(r.Code, r.Name, r.IsCompany)
	r.CreateCatalogRequest.ApplyTo(&p.Catalog)
	r.applyTo(p)
	return p
}

// UpdatePartnerRequest is the request body for updating a partner.
// Omitting companySaleTypes keeps the stored overrides.
type UpdatePartnerRequest struct {
	UpdateCatalogRequest
	PartnerFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePartnerRequest) ApplyTo(p *partner.Partner) {
	r.UpdateCatalogRequest.ApplyTo(&p.Catalog)
	r.applyTo(p)
}

// AssignSaleTypeRequest sets the partner sale type for a company. A nil
// company sets the partner default; a nil type clears it.
type AssignSaleTypeRequest struct {
	CompanyID  *id.ID `json:"companyId"`
	SaleTypeID *id.ID `json:"saleTypeId"`
}

// --- Response DTOs ---

// CompanySaleTypeResponse is a per-company partner sale type.
type CompanySaleTypeResponse struct {
	CompanyID  string `json:"companyId"`
	SaleTypeID string `json:"saleTypeId"`
}

// PartnerResponse is the response body for a partner.
type PartnerResponse struct {
	CatalogResponse
	IsCompany           bool    `json:"isCompany"`
	CommercialPartnerID *string `json:"commercialPartnerId,omitempty"`
	CompanyID           *string `json:"companyId,omitempty"`
	Email               *string `json:"email,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Lang                *string `json:"lang,omitempty"`
	SaleTypeID          *string `json:"saleTypeId,omitempty"`

	CompanySaleTypes []CompanySaleTypeResponse `json:"companySaleTypes"`
}

// FromPartner creates response DTO from domain entity.
func FromPartner(p *partner.Partner) *PartnerResponse {
	resp := &PartnerResponse{
		CatalogResponse:     FromCatalog(p.Catalog),
		IsCompany:           p.IsCompany,
		CommercialPartnerID: IDString(p.CommercialPartnerID),
		CompanyID:           IDString(p.CompanyID),
		Email:               p.Email,
		Phone:               p.Phone,
		Lang:                p.Lang,
		SaleTypeID:          IDString(p.SaleTypeID),
		CompanySaleTypes:    make([]CompanySaleTypeResponse, len(p.CompanySaleTypes)),
	}
	for i, cst := range p.CompanySaleTypes {
		resp.CompanySaleTypes[i] = CompanySaleTypeResponse{
			CompanyID:  cst.CompanyID.String(),
			SaleTypeID: cst.SaleTypeID.String(),
		}
	}
	return resp
}
