package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/documents/sale_order"
	"saletype/internal/infrastructure/http/v1/dto"
)

// SaleOrderHandler handles HTTP requests for quotations and sale orders.
type SaleOrderHandler struct {
	*BaseDocumentHandler[*sale_order.SaleOrder, dto.CreateSaleOrderRequest, dto.UpdateSaleOrderRequest]
	service *sale_order.Service
}

// NewSaleOrderHandler creates a new sale order handler.
func NewSaleOrderHandler(base *BaseHandler, service *sale_order.Service) *SaleOrderHandler {
	config := BaseDocumentHandlerConfig[
		*sale_order.SaleOrder,
		dto.CreateSaleOrderRequest,
		dto.UpdateSaleOrderRequest,
	]{
		Service:    service,
		EntityName: "sale_order",

		MapCreateDTO: func(req dto.CreateSaleOrderRequest, companyID id.ID) *sale_order.SaleOrder {
			return req.ToEntity(companyID)
		},

		CompanyOf: func(req dto.CreateSaleOrderRequest) *id.ID {
			return req.CompanyID
		},

		MapUpdateDTO: func(req dto.UpdateSaleOrderRequest, existing *sale_order.SaleOrder) *sale_order.SaleOrder {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *sale_order.SaleOrder) any {
			return dto.FromSaleOrder(entity)
		},
	}

	return &SaleOrderHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, config),
		service:             service,
	}
}

// List handles GET /document/sale-orders
func (h *SaleOrderHandler) List(c *gin.Context) {
	f := sale_order.ListFilter{ListFilter: h.DocumentListFilter(c)}

	var ok bool
	if f.PartnerID, ok = h.ParseIDQuery(c, "partnerId"); !ok {
		return
	}
	if f.SaleTypeID, ok = h.ParseIDQuery(c, "saleTypeId"); !ok {
		return
	}
	if f.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}
	if f.DateFrom, ok = h.ParseDateQuery(c, "dateFrom"); !ok {
		return
	}
	if f.DateTo, ok = h.ParseDateQuery(c, "dateTo"); !ok {
		return
	}

	if raw := c.Query("state"); raw != "" {
		state := sale_order.State(raw)
		switch state {
		case sale_order.StateDraft, sale_order.StateSent, sale_order.StateSale, sale_order.StateCancel:
			f.State = &state
		default:
			h.Error(c, apperror.NewValidation("invalid state").WithDetail("state", raw))
			return
		}
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromSaleOrder(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Confirm handles POST /document/sale-orders/:id/confirm
func (h *SaleOrderHandler) Confirm(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Confirm(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSaleOrder(doc))
}

// AddLine handles POST /document/sale-orders/:id/lines
// The line follows the route of the order type.
func (h *SaleOrderHandler) AddLine(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.AddLine(c.Request.Context(), docID, req.ProductID, req.Quantity, req.PriceUnit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSaleOrder(doc))
}

// SetLineProduct handles PUT /document/sale-orders/:id/lines/:lineNo/product
func (h *SaleOrderHandler) SetLineProduct(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	lineNo, err := strconv.Atoi(c.Param("lineNo"))
	if err != nil || lineNo < 1 {
		h.Error(c, apperror.NewValidation("invalid line number").WithDetail("param", "lineNo"))
		return
	}

	var req dto.SetLineProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.SetLineProduct(c.Request.Context(), docID, lineNo, req.ProductID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSaleOrder(doc))
}

// CreateInvoice handles POST /document/sale-orders/:id/invoice
// The draft invoice inherits the order's sale type.
func (h *SaleOrderHandler) CreateInvoice(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.CreateInvoice(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(inv))
}

// Send handles POST /document/sale-orders/:id/send
// Mails the quotation with the template of the order type.
func (h *SaleOrderHandler) Send(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.SendQuotation(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Print handles GET /document/sale-orders/:id/print
// Returns the print action of the order type's report.
func (h *SaleOrderHandler) Print(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	action, err := h.service.PrintQuotation(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, action)
}
