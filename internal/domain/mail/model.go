// Package mail provides mail templates and the send policy used by
// sale orders and invoices.
package mail

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
)

// Models a template can be bound to.
const (
	ModelSaleOrder = "sale.order"
	ModelInvoice   = "account.move"
)

// Template is a mail template rendered with pongo2 syntax.
// Subject and Body see the document as "object", plus "lang" and "company".
type Template struct {
	entity.Catalog

	// Model is the document model the template renders ("sale.order", "account.move")
	Model string `db:"model" json:"model"`

	Subject string `db:"subject" json:"subject"`
	Body    string `db:"body_html" json:"bodyHtml"`

	// EmailFrom overrides the configured sender address
	EmailFrom *string `db:"email_from" json:"emailFrom,omitempty"`

	// Lang forces the rendering language; nil uses the recipient's
	Lang *string `db:"lang" json:"lang,omitempty"`
}

// NewTemplate creates a template bound to a model.
func NewTemplate(code, name, model string) *Template {
	return &Template{
		Catalog: entity.NewCatalog(code, name),
		Model:   model,
	}
}

// Validate implements entity.Validatable interface.
func (t *Template) Validate(ctx context.Context) error {
	if err := t.Catalog.Validate(ctx); err != nil {
		return err
	}
	switch t.Model {
	case ModelSaleOrder, ModelInvoice:
	default:
		return apperror.NewValidation("unsupported template model").
			WithDetail("field", "model").
			WithDetail("value", t.Model)
	}
	if t.Subject == "" {
		return apperror.NewValidation("subject is required").
			WithDetail("field", "subject")
	}
	if t.EmailFrom != nil && *t.EmailFrom != "" {
		if !entity.IsValidEmail(*t.EmailFrom) {
			return apperror.NewValidation("invalid sender address").
				WithDetail("field", "emailFrom")
		}
	}
	return compileCheck(t)
}

// Message is a rendered mail ready for delivery.
type Message struct {
	TemplateID string `json:"templateId"`
	Model      string `json:"model"`
	RecordID   string `json:"recordId"`
	From       string `json:"from"`
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Lang       string `json:"lang,omitempty"`
}
