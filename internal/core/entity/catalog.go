package entity

import (
	"context"

	"saletype/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: products, partners, warehouses, companies, sale types.
type Catalog struct {
	BaseCatalog

	// Code is a human-readable identifier (unique per table)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// ParentID for hierarchical catalogs (nullable)
	ParentID *string `db:"parent_id" json:"parentId,omitempty"`

	// IsFolder indicates if this is a group (folder) in hierarchy
	IsFolder bool `db:"is_folder" json:"isFolder"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	return nil
}

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string { return c.Code }

// SetCode assigns a generated code.
func (c *Catalog) SetCode(code string) { c.Code = code }

// IsRoot returns true if catalog has no parent.
func (c *Catalog) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}
