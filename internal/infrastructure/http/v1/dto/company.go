package dto

import (
	"saletype/internal/domain/catalogs/company"
)

// CompanyFields are the editable company fields.
type CompanyFields struct {
	FullName  *string `json:"fullName"`
	Email     *string `json:"email"`
	Lang      *string `json:"lang"`
	IsDefault bool    `json:"isDefault"`
}

func (f *CompanyFields) applyTo(c *company.Company) {
	c.FullName = f.FullName
	c.Email = f.Email
	c.Lang = f.Lang
	c.IsDefault = f.IsDefault
}

// CreateCompanyRequest is the request body for creating a company.
type CreateCompanyRequest struct {
	CreateCatalogRequest
	CompanyFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateCompanyRequest) ToEntity() *company.Company {
	c := company.NewCompany(r.Code, r.Name)
	r.CreateCatalogRequest.ApplyTo(&c.Catalog)
	r.applyTo(c)
	return c
}

// UpdateCompanyRequest is the request body for updating a company.
type UpdateCompanyRequest struct {
	UpdateCatalogRequest
	CompanyFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCompanyRequest) ApplyTo(c *company.Company) {
	r.UpdateCatalogRequest.ApplyTo(&c.Catalog)
	r.applyTo(c)
}

// CompanyResponse is the response body for a company.
type CompanyResponse struct {
	CatalogResponse
	FullName  *string `json:"fullName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Lang      *string `json:"lang,omitempty"`
	IsDefault bool    `json:"isDefault"`
}

// FromCompany creates response DTO from domain entity.
func FromCompany(c *company.Company) *CompanyResponse {
	return &CompanyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		FullName:        c.FullName,
		Email:           c.Email,
		Lang:            c.Lang,
		IsDefault:       c.IsDefault,
	}
}
