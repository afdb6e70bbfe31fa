package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"saletype/internal/core/id"
	"saletype/internal/core/types"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/mail"
)

// --- Request DTOs ---

// CreateInvoiceRequest represents a request to create a draft invoice.
type CreateInvoiceRequest struct {
	Date          *time.Time       `json:"date,omitempty"`
	CompanyID     *id.ID           `json:"companyId,omitempty"`
	PartnerID     id.ID            `json:"partnerId" binding:"required"`
	MoveType      invoice.MoveType `json:"moveType" binding:"omitempty,oneof=out_invoice out_refund in_invoice in_refund entry"`
	SaleTypeID    *id.ID           `json:"saleTypeId,omitempty"`
	JournalID     *id.ID           `json:"journalId,omitempty"`
	PaymentTermID *id.ID           `json:"paymentTermId,omitempty"`
	InvoiceOrigin string           `json:"invoiceOrigin,omitempty"`
	Comment       string           `json:"comment,omitempty"`
	Lines         []LineRequest    `json:"lines" binding:"omitempty,dive"`
}

// ToEntity converts request to domain entity.
func (r *CreateInvoiceRequest) ToEntity(companyID id.ID) *invoice.Invoice {
	moveType := r.MoveType
	if moveType == "" {
		moveType = invoice.MoveOutInvoice
	}

	doc := invoice.NewInvoice(companyID, r.PartnerID, moveType)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SaleTypeID != nil {
		doc.SetSaleTypeID(*r.SaleTypeID)
	}
	doc.JournalID = r.JournalID
	doc.PaymentTermID = r.PaymentTermID
	doc.InvoiceOrigin = r.InvoiceOrigin
	doc.Comment = r.Comment

	setInvoiceLines(doc, r.Lines)
	return doc
}

// UpdateInvoiceRequest represents a request to update a draft invoice.
type UpdateInvoiceRequest struct {
	Version       int           `json:"version" binding:"required,min=1"`
	Date          *time.Time    `json:"date,omitempty"`
	JournalID     *id.ID        `json:"journalId,omitempty"`
	PaymentTermID *id.ID        `json:"paymentTermId,omitempty"`
	Comment       *string       `json:"comment,omitempty"`
	Lines         []LineRequest `json:"lines,omitempty" binding:"omitempty,dive"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateInvoiceRequest) ApplyTo(doc *invoice.Invoice) {
	doc.Version = r.Version
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.JournalID != nil {
		doc.JournalID = r.JournalID
	}
	if r.PaymentTermID != nil {
		doc.PaymentTermID = r.PaymentTermID
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = make([]invoice.Line, 0, len(r.Lines))
		setInvoiceLines(doc, r.Lines)
	}
}

func setInvoiceLines(doc *invoice.Invoice, lines []LineRequest) {
	for _, line := range lines {
		doc.AddLine(line.ProductID, line.Quantity, line.PriceUnit)
		doc.Lines[len(doc.Lines)-1].Description = line.Description
	}
}

// --- Response DTOs ---

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	DocumentResponse
	MoveType        invoice.MoveType      `json:"moveType"`
	PartnerID       string                `json:"partnerId"`
	JournalID       *string               `json:"journalId,omitempty"`
	PaymentTermID   *string               `json:"paymentTermId,omitempty"`
	InvoiceOrigin   string                `json:"invoiceOrigin,omitempty"`
	SaleOrderID     *string               `json:"saleOrderId,omitempty"`
	ReversedEntryID *string               `json:"reversedEntryId,omitempty"`
	AmountTotal     types.Money           `json:"amountTotal"`
	Lines           []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse represents an invoice line in API responses.
type InvoiceLineResponse struct {
	LineID      string          `json:"lineId"`
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productId"`
	Description string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceUnit   types.Money     `json:"priceUnit"`
	Subtotal    types.Money     `json:"subtotal"`
}

// FromInvoice converts domain entity to response DTO.
func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		DocumentResponse: FromDocument(doc.Document, doc.SaleTyped),
		MoveType:         doc.MoveType,
		PartnerID:        doc.PartnerID.String(),
		JournalID:        IDString(doc.JournalID),
		PaymentTermID:    IDString(doc.PaymentTermID),
		InvoiceOrigin:    doc.InvoiceOrigin,
		SaleOrderID:      IDString(doc.SaleOrderID),
		ReversedEntryID:  IDString(doc.ReversedEntryID),
		AmountTotal:      doc.AmountTotal,
	}

	resp.Lines = make([]InvoiceLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = InvoiceLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			Description: line.Description,
			Quantity:    line.Quantity,
			PriceUnit:   line.PriceUnit,
			Subtotal:    line.Subtotal,
		}
	}

	return resp
}

// PostInvoiceResponse is the posted invoice with the outcome of the
// automatic mail, when one was attempted.
type PostInvoiceResponse struct {
	*InvoiceResponse
	Mail *mail.Result `json:"mail,omitempty"`
}
