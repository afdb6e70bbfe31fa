// Package journal provides the accounting Journal catalog. Invoices are
// posted into a journal; a sale type may only point at a sale journal.
package journal

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// JournalType classifies journals.
type JournalType string

const (
	TypeSale     JournalType = "sale"
	TypePurchase JournalType = "purchase"
	TypeCash     JournalType = "cash"
	TypeBank     JournalType = "bank"
	TypeGeneral  JournalType = "general"
)

// Journal is a book of accounting entries.
type Journal struct {
	entity.Catalog

	Type JournalType `db:"type" json:"type"`

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// ShortCode prefixes entries posted in the journal (e.g. "INV")
	ShortCode string `db:"short_code" json:"shortCode"`

	// Sequence orders journals of the same type; the lowest is the default
	Sequence int `db:"sequence" json:"sequence"`
}

// NewJournal creates a new Journal with required fields.
func NewJournal(code, name string, journalType JournalType, companyID id.ID) *Journal {
	return &Journal{
		Catalog:   entity.NewCatalog(code, name),
		Type:      journalType,
		CompanyID: companyID,
		Sequence:  10,
	}
}

// Validate implements entity.Validatable interface.
func (j *Journal) Validate(ctx context.Context) error {
	if err := j.Catalog.Validate(ctx); err != nil {
		return err
	}
	switch j.Type {
	case TypeSale, TypePurchase, TypeCash, TypeBank, TypeGeneral:
	default:
		return apperror.NewValidation("invalid journal type").
			WithDetail("field", "type").
			WithDetail("value", string(j.Type))
	}
	if id.IsNil(j.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}
	if len(j.ShortCode) > 5 {
		return apperror.NewValidation("short code must be at most 5 characters").
			WithDetail("field", "shortCode")
	}
	return nil
}

// IsSale reports whether customer invoices can be posted in the journal.
func (j *Journal) IsSale() bool {
	return j.Type == TypeSale
}
