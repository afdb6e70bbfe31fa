// Package saletype provides sale order types: configuration templates that
// default warehouse, terms, pricelist, journal and document templates on
// orders and invoices, plus the product rules used to infer a type from
// the lines of a document.
package saletype

import (
	"context"
	"sort"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
)

// PickingPolicy is the shipping policy of an order.
type PickingPolicy string

const (
	// PickingDirect ships each product as soon as it is available
	PickingDirect PickingPolicy = "direct"
	// PickingOne ships everything at once
	PickingOne PickingPolicy = "one"
)

// Valid reports whether p is a known policy. Empty means unset.
func (p PickingPolicy) Valid() bool {
	switch p {
	case "", PickingDirect, PickingOne:
		return true
	}
	return false
}

// DefaultSequence is the sort order of new types and rules.
const DefaultSequence = 10

// Numbering is the optional numbering sequence of a type.
type Numbering struct {
	// SequencePrefix enables the sequence when set (e.g. "TSO")
	SequencePrefix *string `db:"sequence_prefix" json:"sequencePrefix,omitempty"`

	SequencePadding     int    `db:"sequence_padding" json:"sequencePadding"`
	SequenceIncludeYear bool   `db:"sequence_include_year" json:"sequenceIncludeYear"`
	SequenceResetPeriod string `db:"sequence_reset_period" json:"sequenceResetPeriod"`
}

// HasSequence reports whether a numbering sequence is configured.
func (n Numbering) HasSequence() bool {
	return n.SequencePrefix != nil && *n.SequencePrefix != ""
}

// Config converts the sequence to numerator configuration.
func (n Numbering) Config() numerator.Config {
	cfg := numerator.Config{
		IncludeYear: n.SequenceIncludeYear,
		PadWidth:    n.SequencePadding,
		ResetPeriod: numerator.ResetPeriod(n.SequenceResetPeriod),
	}
	if n.SequencePrefix != nil {
		cfg.Prefix = *n.SequencePrefix
	}
	if cfg.ResetPeriod == "" {
		cfg.ResetPeriod = numerator.ResetNever
	}
	return cfg
}

func (n Numbering) validate() error {
	if !n.HasSequence() {
		return nil
	}
	if n.SequencePadding < 0 || n.SequencePadding > 12 {
		return apperror.NewValidation("sequence padding must be between 0 and 12").
			WithDetail("field", "sequencePadding")
	}
	if !numerator.ResetPeriod(n.SequenceResetPeriod).Valid() {
		return apperror.NewValidation("invalid sequence reset period").
			WithDetail("field", "sequenceResetPeriod").
			WithDetail("value", n.SequenceResetPeriod)
	}
	return nil
}

// SaleType is a sale order type.
type SaleType struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`

	// Sequence is the sort order among types (lowest first)
	Sequence int `db:"sequence" json:"sequence"`

	Numbering

	// JournalID is the billing journal; must be a sale journal
	JournalID *id.ID `db:"journal_id" json:"journalId,omitempty"`

	WarehouseID   *id.ID        `db:"warehouse_id" json:"warehouseId,omitempty"`
	PickingPolicy PickingPolicy `db:"picking_policy" json:"pickingPolicy,omitempty"`
	PaymentTermID *id.ID        `db:"payment_term_id" json:"paymentTermId,omitempty"`
	PricelistID   *id.ID        `db:"pricelist_id" json:"pricelistId,omitempty"`
	IncotermID    *id.ID        `db:"incoterm_id" json:"incotermId,omitempty"`
	RouteID       *id.ID        `db:"route_id" json:"routeId,omitempty"`

	// QuotationTemplateID is the mail template for quotations and orders
	QuotationTemplateID *id.ID `db:"mail_template_id" json:"mailTemplateId,omitempty"`

	// QuotationReportID is the document template for quotations and orders
	QuotationReportID *id.ID `db:"report_id" json:"reportId,omitempty"`

	// InvoiceTemplateID is the mail template for invoices
	InvoiceTemplateID *id.ID `db:"invoice_mail_template_id" json:"invoiceMailTemplateId,omitempty"`

	// SendInvoiceMailAutomatically sends the invoice mail on posting
	SendInvoiceMailAutomatically bool `db:"send_invoice_mail_automatically" json:"sendInvoiceMailAutomatically"`

	// CompanyID follows the warehouse company; nil means the type is global
	CompanyID *id.ID `db:"company_id" json:"companyId,omitempty"`

	// Rules used for classification, ascending (sequence, id)
	Rules []*Rule `db:"-" json:"rules"`
}

// NewSaleType creates a new SaleType with required fields.
func NewSaleType(code, name string) *SaleType {
	return &SaleType{
		Catalog:  entity.NewCatalog(code, name),
		Sequence: DefaultSequence,
	}
}

// Validate implements entity.Validatable interface.
func (t *SaleType) Validate(ctx context.Context) error {
	if err := t.Catalog.Validate(ctx); err != nil {
		return err
	}
	if t.Sequence < 0 {
		return apperror.NewValidation("sequence cannot be negative").
			WithDetail("field", "sequence")
	}
	if !t.PickingPolicy.Valid() {
		return apperror.NewValidation("invalid picking policy").
			WithDetail("field", "pickingPolicy").
			WithDetail("value", string(t.PickingPolicy))
	}
	if err := t.Numbering.validate(); err != nil {
		return err
	}
	for i, r := range t.Rules {
		if r.SaleTypeID != t.ID {
			return apperror.NewValidation("rule belongs to another sale type").
				WithDetail("field", "rules").
				WithDetail("index", i)
		}
		if err := r.Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AddRule attaches a rule to the type and keeps rules ordered.
func (t *SaleType) AddRule(r *Rule) {
	r.SaleTypeID = t.ID
	t.Rules = append(t.Rules, r)
	SortRules(t.Rules)
}

// IsGlobal reports whether the type is available in every company.
func (t *SaleType) IsGlobal() bool {
	return t.CompanyID == nil || id.IsNil(*t.CompanyID)
}

// AvailableIn reports whether the type may be used in the company.
func (t *SaleType) AvailableIn(companyID id.ID) bool {
	return t.IsGlobal() || *t.CompanyID == companyID
}

// SortTypes orders types by (sequence, name, id).
func SortTypes(types []*SaleType) {
	sort.SliceStable(types, func(i, j int) bool {
		a, b := types[i], types[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
}
