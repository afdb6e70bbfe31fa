package dto

import (
	"saletype/internal/core/id"
	"saletype/internal/domain/saletype"
)

// --- Request DTOs ---

// SaleTypeFields are the editable sale type fields.
type SaleTypeFields struct {
	Description *string `json:"description"`
	Sequence    *int    `json:"sequence" binding:"omitempty,min=0"`

	SequencePrefix      *string `json:"sequencePrefix"`
	SequencePadding     int     `json:"sequencePadding"`
	SequenceIncludeYear bool    `json:"sequenceIncludeYear"`
	SequenceResetPeriod string  `json:"sequenceResetPeriod"`

	JournalID     *id.ID                 `json:"journalId"`
	WarehouseID   *id.ID                 `json:"warehouseId"`
	PickingPolicy saletype.PickingPolicy `json:"pickingPolicy"`
	PaymentTermID *id.ID                 `json:"paymentTermId"`
	PricelistID   *id.ID                 `json:"pricelistId"`
	IncotermID    *id.ID                 `json:"incotermId"`
	RouteID       *id.ID                 `json:"routeId"`

	MailTemplateID               *id.ID `json:"mailTemplateId"`
	QuotationReportID            *id.ID `json:"quotationReportId"`
	InvoiceMailTemplateID        *id.ID `json:"invoiceMailTemplateId"`
	SendInvoiceMailAutomatically bool   `json:"sendInvoiceMailAutomatically"`

	CompanyID *id.ID        `json:"companyId"`
	Rules     []RuleRequest `json:"rules" binding:"omitempty,dive"`
}

func (f *SaleTypeFields) applyTo(t *saletype.SaleType) {
	t.Description = f.Description
	if f.Sequence != nil {
		t.Sequence = *f.Sequence
	}
	t.SequencePrefix = f.SequencePrefix
	t.SequencePadding = f.SequencePadding
	t.SequenceIncludeYear = f.SequenceIncludeYear
	t.SequenceResetPeriod = f.SequenceResetPeriod
	t.JournalID = f.JournalID
	t.WarehouseID = f.WarehouseID
	t.PickingPolicy = f.PickingPolicy
	t.PaymentTermID = f.PaymentTermID
	t.PricelistID = f.PricelistID
	t.IncotermID = f.IncotermID
	t.RouteID = f.RouteID
	t.QuotationTemplateID = f.MailTemplateID
	t.QuotationReportID = f.QuotationReportID
	t.InvoiceTemplateID = f.InvoiceMailTemplateID
	t.SendInvoiceMailAutomatically = f.SendInvoiceMailAutomatically
	t.CompanyID = f.CompanyID

	if f.Rules != nil {
		t.Rules = nil
		for i := range f.Rules {
			t.AddRule(f.Rules[i].ToRule())
		}
	}
}

// CreateSaleTypeRequest is the request body for creating a sale type.
type CreateSaleTypeRequest struct {
	CreateCatalogRequest
	SaleTypeFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateSaleTypeRequest) ToEntity() *saletype.SaleType {
	t := saletype.NewSaleType(r.Code, r.Name)
	r.CreateCatalogRequest.ApplyTo(&t.Catalog)
	r.applyTo(t)
	return t
}

// UpdateSaleTypeRequest is the request body for updating a sale type.
// Omitting rules keeps the stored ones.
type UpdateSaleTypeRequest struct {
	UpdateCatalogRequest
	SaleTypeFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSaleTypeRequest) ApplyTo(t *saletype.SaleType) {
	r.UpdateCatalogRequest.ApplyTo(&t.Catalog)
	r.applyTo(t)
}

// RuleRequest describes a classification rule.
type RuleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Sequence    *int    `json:"sequence" binding:"omitempty,min=0"`
	ProductIDs  []id.ID `json:"productIds"`
	CategoryIDs []id.ID `json:"categoryIds"`
}

// ToRule converts DTO to a rule.
func (r *RuleRequest) ToRule() *saletype.Rule {
	rule := saletype.NewRule(r.Name)
	if r.Sequence != nil {
		rule.Sequence = *r.Sequence
	}
	rule.ProductIDs = r.ProductIDs
	rule.CategoryIDs = r.CategoryIDs
	return rule
}

// --- Response DTOs ---

// RuleResponse is the response body for a rule.
type RuleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Sequence    int      `json:"sequence"`
	ProductIDs  []string `json:"productIds"`
	CategoryIDs []string `json:"categoryIds"`
}

// SaleTypeResponse is the response body for a sale type.
type SaleTypeResponse struct {
	CatalogResponse
	Description *string `json:"description,omitempty"`
	Sequence    int     `json:"sequence"`

	SequencePrefix      *string `json:"sequencePrefix,omitempty"`
	SequencePadding     int     `json:"sequencePadding"`
	SequenceIncludeYear bool    `json:"sequenceIncludeYear"`
	SequenceResetPeriod string  `json:"sequenceResetPeriod,omitempty"`

	JournalID     *string                `json:"journalId,omitempty"`
	WarehouseID   *string                `json:"warehouseId,omitempty"`
	PickingPolicy saletype.PickingPolicy `json:"pickingPolicy,omitempty"`
	PaymentTermID *string                `json:"paymentTermId,omitempty"`
	PricelistID   *string                `json:"pricelistId,omitempty"`
	IncotermID    *string                `json:"incotermId,omitempty"`
	RouteID       *string                `json:"routeId,omitempty"`

	MailTemplateID               *string `json:"mailTemplateId,omitempty"`
	QuotationReportID            *string `json:"quotationReportId,omitempty"`
	InvoiceMailTemplateID        *string `json:"invoiceMailTemplateId,omitempty"`
	SendInvoiceMailAutomatically bool    `json:"sendInvoiceMailAutomatically"`

	CompanyID *string        `json:"companyId,omitempty"`
	Rules     []RuleResponse `json:"rules"`
}

// FromSaleType creates response DTO from domain entity.
func FromSaleType(t *saletype.SaleType) *SaleTypeResponse {
	resp := &SaleTypeResponse{
		CatalogResponse: FromCatalog(t.Catalog),
		Description:     t.Description,
		Sequence:        t.Sequence,

		SequencePrefix:      t.SequencePrefix,
		SequencePadding:     t.SequencePadding,
		SequenceIncludeYear: t.SequenceIncludeYear,
		SequenceResetPeriod: t.SequenceResetPeriod,

		JournalID:     IDString(t.JournalID),
		WarehouseID:   IDString(t.WarehouseID),
		PickingPolicy: t.PickingPolicy,
		PaymentTermID: IDString(t.PaymentTermID),
		PricelistID:   IDString(t.PricelistID),
		IncotermID:    IDString(t.IncotermID),
		RouteID:       IDString(t.RouteID),

		MailTemplateID:               IDString(t.QuotationTemplateID),
		QuotationReportID:            IDString(t.QuotationReportID),
		InvoiceMailTemplateID:        IDString(t.InvoiceTemplateID),
		SendInvoiceMailAutomatically: t.SendInvoiceMailAutomatically,

		CompanyID: IDString(t.CompanyID),
		Rules:     make([]RuleResponse, 0, len(t.Rules)),
	}
	for _, r := range t.Rules {
		resp.Rules = append(resp.Rules, RuleResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			Sequence:    r.Sequence,
			ProductIDs:  idStrings(r.ProductIDs),
			CategoryIDs: idStrings(r.CategoryIDs),
		})
	}
	return resp
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}
