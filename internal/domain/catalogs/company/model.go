// Package company provides the Company catalog: the legal entities that
// own warehouses, journals and documents.
package company

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
)

// Company represents a legal entity documents are issued by.
type Company struct {
	entity.Catalog

	// FullName is the official registered name
	FullName *string `db:"full_name" json:"fullName,omitempty"`

	// Email is the sender address for outgoing document mail
	Email *string `db:"email" json:"email,omitempty"`

	// Lang is the default language for partners without one (BCP 47)
	Lang *string `db:"lang" json:"lang,omitempty"`

	// IsDefault marks the company used when the context has none
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewCompany creates a new Company with required fields.
func NewCompany(code, name string) *Company {
	return &Company{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if c.Email != nil && *c.Email != "" && !entity.IsValidEmail(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	if c.Lang != nil && *c.Lang != "" && !entity.IsValidLang(*c.Lang) {
		return apperror.NewValidation("invalid language tag").
			WithDetail("field", "lang").
			WithDetail("value", *c.Lang)
	}
	return nil
}
