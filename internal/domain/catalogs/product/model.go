// Package product provides the Product catalog.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// ProductType defines what kind of item a product is.
type ProductType string

const (
	TypeGoods      ProductType = "goods"
	TypeConsumable ProductType = "consumable"
	TypeService    ProductType = "service"
)

// Product represents an item that can be put on order lines.
type Product struct {
	entity.Catalog

	Type ProductType `db:"type" json:"type"`

	// CategoryID is the product category used by sale type rules
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// SaleOK marks products that can be sold
	SaleOK bool `db:"sale_ok" json:"saleOk"`

	ListPrice decimal.Decimal `db:"list_price" json:"listPrice"`

	Barcode     *string `db:"barcode" json:"barcode,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, categoryID id.ID) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(code, name),
		Type:       TypeGoods,
		CategoryID: categoryID,
		SaleOK:     true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch p.Type {
	case TypeGoods, TypeConsumable, TypeService:
	default:
		return apperror.NewValidation("invalid product type").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}

	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if p.ListPrice.IsNegative() {
		return apperror.NewValidation("list price cannot be negative").
			WithDetail("field", "listPrice")
	}

	return nil
}
