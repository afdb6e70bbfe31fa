package entity

import (
	"context"
	"time"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
)

// Document is the base type for business transactions.
// Examples: sale orders, customer invoices, refunds.
type Document struct {
	BaseDocument

	// Number is the document number ("/" until a sequence assigns one)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Posted indicates the document is confirmed (order) or validated (invoice)
	Posted bool `db:"posted" json:"posted"`

	// PostedVersion counts posting iterations
	PostedVersion int `db:"posted_version" json:"postedVersion"`

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(companyID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		CompanyID:    companyID,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// CanModify checks if document can be modified.
// Posted documents require unposting first.
func (d *Document) CanModify() error {
	if d.Posted {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentPosted,
			"Cannot modify posted document. Reset to draft first.",
		).WithDetail("document_id", d.ID.String())
	}
	return nil
}

// MarkPosted confirms an order or validates an invoice. The optimistic
// lock version is left to the repository.
func (d *Document) MarkPosted() {
	d.Posted = true
	d.PostedVersion++
}

// HasNumber reports whether a real number has been assigned.
func (d *Document) HasNumber() bool {
	return d.Number != "" && d.Number != "/"
}
