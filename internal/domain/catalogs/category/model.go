// Package category provides the hierarchical product category catalog.
package category

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
)

// Category groups products. Categories form a tree through ParentID.
type Category struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a new Category with required fields.
func NewCategory(code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if c.ParentID != nil && *c.ParentID == c.ID.String() {
		return apperror.NewValidation("category cannot be its own parent").
			WithDetail("field", "parentId")
	}
	return nil
}
