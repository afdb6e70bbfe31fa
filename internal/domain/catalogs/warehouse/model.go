// Package warehouse provides the Warehouse catalog.
// A warehouse belongs to one company; a sale type inherits the company of
// its warehouse.
package warehouse

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// WarehouseType defines the type of warehouse.
type WarehouseType string

const (
	TypeMain         WarehouseType = "main"
	TypeDistribution WarehouseType = "distribution"
	TypeRetail       WarehouseType = "retail"
	TypeTransit      WarehouseType = "transit"
)

// Warehouse represents a storage location orders ship from.
type Warehouse struct {
	entity.Catalog

	Type WarehouseType `db:"type" json:"type"`

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	Address *string `db:"address" json:"address,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"isActive"`

	// IsDefault marks the company's default warehouse
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string, companyID id.ID) *Warehouse {
	return &Warehouse{
		Catalog:   entity.NewCatalog(code, name),
		Type:      TypeMain,
		CompanyID: companyID,
		IsActive:  true,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidWarehouseType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}

	if id.IsNil(w.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	return nil
}

// CanShip returns true if orders can be shipped from the warehouse.
func (w *Warehouse) CanShip() bool {
	return w.IsActive && !w.IsFolder && !w.DeletionMark
}

func isValidWarehouseType(t WarehouseType) bool {
	switch t {
	case TypeMain, TypeDistribution, TypeRetail, TypeTransit:
		return true
	}
	return false
}
