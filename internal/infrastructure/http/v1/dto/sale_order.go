package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"saletype/internal/core/id"
	"saletype/internal/core/types"
	"saletype/internal/domain/documents/sale_order"
	"saletype/internal/domain/saletype"
)

// --- Request DTOs ---

// CreateSaleOrderRequest represents a request to create a quotation.
// Omitted terms are filled from the sale type.
type CreateSaleOrderRequest struct {
	Number        string                 `json:"number,omitempty"`
	Date          *time.Time             `json:"date,omitempty"`
	CompanyID     *id.ID                 `json:"companyId,omitempty"`
	PartnerID     id.ID                  `json:"partnerId" binding:"required"`
	SaleTypeID    *id.ID                 `json:"saleTypeId,omitempty"`
	WarehouseID   *id.ID                 `json:"warehouseId,omitempty"`
	PickingPolicy saletype.PickingPolicy `json:"pickingPolicy,omitempty" binding:"omitempty,oneof=direct one"`
	PaymentTermID *id.ID                 `json:"paymentTermId,omitempty"`
	PricelistID   *id.ID                 `json:"pricelistId,omitempty"`
	IncotermID    *id.ID                 `json:"incotermId,omitempty"`
	Comment       string                 `json:"comment,omitempty"`
	Lines         []LineRequest          `json:"lines" binding:"omitempty,dive"`
}

// LineRequest represents a document line in create/update requests.
type LineRequest struct {
	ProductID   id.ID           `json:"productId" binding:"required"`
	Description string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceUnit   types.Money     `json:"priceUnit"`
	RouteID     *id.ID          `json:"routeId,omitempty"`
}

// ToEntity converts request to domain entity. companyID is the resolved
// company of the request.
func (r *CreateSaleOrderRequest) ToEntity(companyID id.ID) *sale_order.SaleOrder {
	doc := sale_order.NewSaleOrder(companyID, r.PartnerID)
	if r.Number != "" {
		doc.Number = r.Number
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SaleTypeID != nil {
		doc.SetSaleTypeID(*r.SaleTypeID)
	}
	doc.WarehouseID = r.WarehouseID
	if r.PickingPolicy != "" {
		doc.PickingPolicy = r.PickingPolicy
	}
	doc.PaymentTermID = r.PaymentTermID
	doc.PricelistID = r.PricelistID
	doc.IncotermID = r.IncotermID
	doc.Comment = r.Comment

	setOrderLines(doc, r.Lines)
	return doc
}

// UpdateSaleOrderRequest represents a request to update a quotation.
// The sale type and partner change through their own endpoints.
type UpdateSaleOrderRequest struct {
	Version       int                     `json:"version" binding:"required,min=1"`
	Date          *time.Time              `json:"date,omitempty"`
	WarehouseID   *id.ID                  `json:"warehouseId,omitempty"`
	PickingPolicy *saletype.PickingPolicy `json:"pickingPolicy,omitempty" binding:"omitempty,oneof=direct one"`
	PaymentTermID *id.ID                  `json:"paymentTermId,omitempty"`
	PricelistID   *id.ID                  `json:"pricelistId,omitempty"`
	IncotermID    *id.ID                  `json:"incotermId,omitempty"`
	Comment       *string                 `json:"comment,omitempty"`
	Lines         []LineRequest           `json:"lines,omitempty" binding:"omitempty,dive"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateSaleOrderRequest) ApplyTo(doc *sale_order.SaleOrder) {
	doc.Version = r.Version
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.WarehouseID != nil {
		doc.WarehouseID = r.WarehouseID
	}
	if r.PickingPolicy != nil {
		doc.PickingPolicy = *r.PickingPolicy
	}
	if r.PaymentTermID != nil {
		doc.PaymentTermID = r.PaymentTermID
	}
	if r.PricelistID != nil {
		doc.PricelistID = r.PricelistID
	}
	if r.IncotermID != nil {
		doc.IncotermID = r.IncotermID
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	// If lines are provided, rebuild them
	if r.Lines != nil {
		doc.Lines = make([]sale_order.Line, 0, len(r.Lines))
		setOrderLines(doc, r.Lines)
	}
}

func setOrderLines(doc *sale_order.SaleOrder, lines []LineRequest) {
	for _, line := range lines {
		l := doc.AddLine(line.ProductID, line.Quantity, line.PriceUnit)
		l.Description = line.Description
		l.RouteID = line.RouteID
	}
}

// AddLineRequest appends a product to an order.
type AddLineRequest struct {
	ProductID id.ID           `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	PriceUnit types.Money     `json:"priceUnit"`
}

// SetLineProductRequest replaces the product of a line.
type SetLineProductRequest struct {
	ProductID id.ID `json:"productId" binding:"required"`
}

// --- Response DTOs ---

// SaleOrderResponse represents a sale order in API responses.
type SaleOrderResponse struct {
	DocumentResponse
	PartnerID     string                  `json:"partnerId"`
	WarehouseID   *string                 `json:"warehouseId,omitempty"`
	PickingPolicy saletype.PickingPolicy  `json:"pickingPolicy"`
	PaymentTermID *string                 `json:"paymentTermId,omitempty"`
	PricelistID   *string                 `json:"pricelistId,omitempty"`
	IncotermID    *string                 `json:"incotermId,omitempty"`
	State         sale_order.State        `json:"state"`
	AmountTotal   types.Money             `json:"amountTotal"`
	Lines         []SaleOrderLineResponse `json:"lines"`
}

// SaleOrderLineResponse represents a line in API responses.
type SaleOrderLineResponse struct {
	LineID      string          `json:"lineId"`
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productId"`
	Description string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceUnit   types.Money     `json:"priceUnit"`
	Subtotal    types.Money     `json:"subtotal"`
	RouteID     *string         `json:"routeId,omitempty"`
}

// FromSaleOrder converts domain entity to response DTO.
func FromSaleOrder(doc *sale_order.SaleOrder) *SaleOrderResponse {
	resp := &SaleOrderResponse{
		DocumentResponse: FromDocument(doc.Document, doc.SaleTyped),
		PartnerID:        doc.PartnerID.String(),
		WarehouseID:      IDString(doc.WarehouseID),
		PickingPolicy:    doc.PickingPolicy,
		PaymentTermID:    IDString(doc.PaymentTermID),
		PricelistID:      IDString(doc.PricelistID),
		IncotermID:       IDString(doc.IncotermID),
		State:            doc.State,
		AmountTotal:      doc.AmountTotal,
	}

	resp.Lines = make([]SaleOrderLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = SaleOrderLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			Description: line.Description,
			Quantity:    line.Quantity,
			PriceUnit:   line.PriceUnit,
			Subtotal:    line.Subtotal,
			RouteID:     IDString(line.RouteID),
		}
	}

	return resp
}
