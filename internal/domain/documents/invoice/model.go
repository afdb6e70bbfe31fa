// Package invoice provides the Invoice document (customer invoices and
// refunds, plus the other journal entry kinds they share a table with).
package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/core/types"
	"saletype/internal/domain/saletype"
)

// Model is the document model name used by mail templates and reports.
const Model = "account.move"

// MoveType is the kind of entry.
type MoveType string

const (
	MoveOutInvoice MoveType = "out_invoice"
	MoveOutRefund  MoveType = "out_refund"
	MoveInInvoice  MoveType = "in_invoice"
	MoveInRefund   MoveType = "in_refund"
	MoveEntry      MoveType = "entry"
)

// Valid reports whether m is a known move type.
func (m MoveType) Valid() bool {
	switch m {
	case MoveOutInvoice, MoveOutRefund, MoveInInvoice, MoveInRefund, MoveEntry:
		return true
	}
	return false
}

// IsSale reports whether entries of this kind carry a sale type.
func (m MoveType) IsSale() bool {
	return m == MoveOutInvoice || m == MoveOutRefund
}

// Invoice is an accounting entry; sale types apply to customer invoices
// and refunds only.
type Invoice struct {
	entity.Document
	entity.SaleTyped

	MoveType  MoveType `db:"move_type" json:"moveType"`
	PartnerID id.ID    `db:"partner_id" json:"partnerId"`

	JournalID     *id.ID `db:"journal_id" json:"journalId,omitempty"`
	PaymentTermID *id.ID `db:"payment_term_id" json:"paymentTermId,omitempty"`

	// InvoiceOrigin is the number of the source order
	InvoiceOrigin string `db:"invoice_origin" json:"invoiceOrigin,omitempty"`
	SaleOrderID   *id.ID `db:"sale_order_id" json:"saleOrderId,omitempty"`

	// ReversedEntryID is the invoice a refund reverses
	ReversedEntryID *id.ID `db:"reversed_entry_id" json:"reversedEntryId,omitempty"`

	AmountTotal types.Money `db:"amount_total" json:"amountTotal"`

	// Table part: invoiced products
	Lines []Line `db:"-" json:"lines"`
}

// Line is a line of an invoice.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID           `db:"product_id" json:"productId"`
	Description string          `db:"name" json:"name,omitempty"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	PriceUnit   types.Money     `db:"price_unit" json:"priceUnit"`
	Subtotal    types.Money     `db:"subtotal" json:"subtotal"`
}

// NewInvoice creates a draft entry. The number stays "/" until posted.
func NewInvoice(companyID, partnerID id.ID, moveType MoveType) *Invoice {
	doc := entity.NewDocument(companyID)
	doc.Number = "/"
	return &Invoice{
		Document:    doc,
		MoveType:    moveType,
		PartnerID:   partnerID,
		AmountTotal: types.Zero(),
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates the total.
func (i *Invoice) AddLine(productID id.ID, quantity decimal.Decimal, priceUnit types.Money) {
	i.Lines = append(i.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(i.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		PriceUnit: priceUnit,
	})
	i.recalculate()
}

func (i *Invoice) recalculate() {
	total := types.Zero()
	for n := range i.Lines {
		l := &i.Lines[n]
		l.Subtotal = types.Subtotal(l.PriceUnit, l.Quantity)
		total = total.Add(l.Subtotal)
	}
	i.AmountTotal = total
}

// ProductIDs returns the products of the lines.
func (i *Invoice) ProductIDs() []id.ID {
	ids := make([]id.ID, 0, len(i.Lines))
	for _, l := range i.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// ApplySaleType attaches t and cascades its payment term and journal.
// Unset type attributes keep the invoice's values.
func (i *Invoice) ApplySaleType(t *saletype.SaleType) ([]string, error) {
	if !i.MoveType.IsSale() {
		return nil, apperror.NewBusinessRule(apperror.CodeMoveTypeNotSale, "sale types apply to customer invoices and refunds only").
			WithDetail("moveType", string(i.MoveType))
	}
	i.SetSaleTypeID(t.ID)

	cur := saletype.Defaults{PaymentTermID: i.PaymentTermID, JournalID: i.JournalID}
	changed := t.Defaults().ForInvoice().CascadeInto(&cur)
	i.PaymentTermID = cur.PaymentTermID
	i.JournalID = cur.JournalID
	return changed, nil
}

// Refund builds a draft refund of a posted customer invoice. The sale
// type is carried over.
func (i *Invoice) Refund() (*Invoice, error) {
	if i.MoveType != MoveOutInvoice || !i.Posted {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "only posted customer invoices can be refunded").
			WithDetail("document_id", i.ID.String())
	}
	r := NewInvoice(i.CompanyID, i.PartnerID, MoveOutRefund)
	r.SaleTypeID = copyID(i.SaleTypeID)
	r.JournalID = copyID(i.JournalID)
	r.PaymentTermID = copyID(i.PaymentTermID)
	r.InvoiceOrigin = i.Number
	src := i.ID
	r.ReversedEntryID = &src
	for _, l := range i.Lines {
		r.AddLine(l.ProductID, l.Quantity, l.PriceUnit)
		r.Lines[len(r.Lines)-1].Description = l.Description
	}
	return r, nil
}

// Validate implements entity.Validatable.
func (i *Invoice) Validate(ctx context.Context) error {
	if err := i.Document.Validate(ctx); err != nil {
		return err
	}

	if !i.MoveType.Valid() {
		return apperror.NewValidation("invalid move type").
			WithDetail("field", "moveType").
			WithDetail("value", string(i.MoveType))
	}

	if i.MoveType != MoveEntry && id.IsNil(i.PartnerID) {
		return apperror.NewValidation("partner is required").
			WithDetail("field", "partnerId")
	}

	if !i.MoveType.IsSale() && i.HasSaleType() {
		return apperror.NewBusinessRule(apperror.CodeMoveTypeNotSale, "sale types apply to customer invoices and refunds only").
			WithDetail("moveType", string(i.MoveType))
	}

	for n, line := range i.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", n+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", n+1)
		}
	}

	return nil
}

func copyID(v *id.ID) *id.ID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// AttachSaleType implements saletype.Target.
func (i *Invoice) AttachSaleType(t *saletype.SaleType) error {
	_, err := i.ApplySaleType(t)
	return err
}

var _ saletype.Target = (*Invoice)(nil)
