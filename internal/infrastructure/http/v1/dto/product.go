package dto

import (
	"github.com/shopspring/decimal"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/category"
	"saletype/internal/domain/catalogs/product"
)

// --- Product ---

// ProductFields are the editable product fields.
type ProductFields struct {
	Type        product.ProductType `json:"type"`
	CategoryID  id.ID               `json:"categoryId" binding:"required"`
	SaleOK      *bool               `json:"saleOk"`
	ListPrice   decimal.Decimal     `json:"listPrice"`
	Barcode     *string             `json:"barcode"`
	Description *string             `json:"description"`
}

func (f *ProductFields) applyTo(p *product.Product) {
	if f.Type != "" {
		p.Type = f.Type
	}
	p.CategoryID = f.CategoryID
	if f.SaleOK != nil {
		p.SaleOK = *f.SaleOK
	}
	p.ListPrice = f.ListPrice
	p.Barcode = f.Barcode
	p.Description = f.Description
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	CreateCatalogRequest
	ProductFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.CategoryID)
	r.CreateCatalogRequest.ApplyTo(&p.Catalog)
	r.applyTo(p)
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	UpdateCatalogRequest
	ProductFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	r.UpdateCatalogRequest.ApplyTo(&p.Catalog)
	r.applyTo(p)
}

// ProductResponse is the response body for a product.
type ProductResponse struct {
	CatalogResponse
	Type        product.ProductType `json:"type"`
	CategoryID  string              `json:"categoryId"`
	SaleOK      bool                `json:"saleOk"`
	ListPrice   decimal.Decimal     `json:"listPrice"`
	Barcode     *string             `json:"barcode,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		Type:            p.Type,
		CategoryID:      p.CategoryID.String(),
		SaleOK:          p.SaleOK,
		ListPrice:       p.ListPrice,
		Barcode:         p.Barcode,
		Description:     p.Description,
	}
}

// --- Product category ---

// CreateCategoryRequest is the request body for creating a product category.
type CreateCategoryRequest struct {
	CreateCatalogRequest
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Code, r.Name)
	r.CreateCatalogRequest.ApplyTo(&c.Catalog)
	c.Description = r.Description
	return c
}

// UpdateCategoryRequest is the request body for updating a product category.
type UpdateCategoryRequest struct {
	UpdateCatalogRequest
	Description *string `json:"description"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	r.UpdateCatalogRequest.ApplyTo(&c.Catalog)
	c.Description = r.Description
}

// CategoryResponse is the response body for a product category.
type CategoryResponse struct {
	CatalogResponse
	Description *string `json:"description,omitempty"`
}

// FromCategory creates response DTO from domain entity.
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Description:     c.Description,
	}
}
