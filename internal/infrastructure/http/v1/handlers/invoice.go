package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles HTTP requests for invoices and refunds.
type InvoiceHandler struct {
	*BaseDocumentHandler[*invoice.Invoice, dto.CreateInvoiceRequest, dto.UpdateInvoiceRequest]
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	config := BaseDocumentHandlerConfig[
		*invoice.Invoice,
		dto.CreateInvoiceRequest,
		dto.UpdateInvoiceRequest,
	]{
		Service:    service,
		EntityName: "invoice",

		MapCreateDTO: func(req dto.CreateInvoiceRequest, companyID id.ID) *invoice.Invoice {
			return req.ToEntity(companyID)
		},

		CompanyOf: func(req dto.CreateInvoiceRequest) *id.ID {
			return req.CompanyID
		},

		MapUpdateDTO: func(req dto.UpdateInvoiceRequest, existing *invoice.Invoice) *invoice.Invoice {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *invoice.Invoice) any {
			return dto.FromInvoice(entity)
		},
	}

	return &InvoiceHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, config),
		service:             service,
	}
}

// List handles GET /document/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	f := invoice.ListFilter{ListFilter: h.DocumentListFilter(c)}

	var ok bool
	if f.PartnerID, ok = h.ParseIDQuery(c, "partnerId"); !ok {
		return
	}
	if f.SaleTypeID, ok = h.ParseIDQuery(c, "saleTypeId"); !ok {
		return
	}
	if f.SaleOrderID, ok = h.ParseIDQuery(c, "saleOrderId"); !ok {
		return
	}
	if f.DateFrom, ok = h.ParseDateQuery(c, "dateFrom"); !ok {
		return
	}
	if f.DateTo, ok = h.ParseDateQuery(c, "dateTo"); !ok {
		return
	}

	if raw := c.Query("moveType"); raw != "" {
		moveType := invoice.MoveType(raw)
		if !moveType.Valid() {
			h.Error(c, apperror.NewValidation("invalid move type").WithDetail("moveType", raw))
			return
		}
		f.MoveType = &moveType
	}

	if raw := c.Query("posted"); raw != "" {
		posted := raw == "true"
		f.Posted = &posted
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromInvoice(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Post handles POST /document/invoices/:id/post
// When the invoice type sends mail automatically, the response carries
// the outcome of that mail.
func (h *InvoiceHandler) Post(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, result, err := h.service.Post(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.PostInvoiceResponse{InvoiceResponse: dto.FromInvoice(doc), Mail: result})
}

// Send handles POST /document/invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Send(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Refund handles POST /document/invoices/:id/refund
// The credit note keeps the sale type of the reversed invoice.
func (h *InvoiceHandler) Refund(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	refund, err := h.service.Refund(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(refund))
}
