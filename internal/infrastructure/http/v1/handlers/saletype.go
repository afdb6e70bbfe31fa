package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/http/v1/dto"
)

// SaleTypeHandler serves the sale type catalog and its classification rules.
type SaleTypeHandler struct {
	*CatalogHandler[*saletype.SaleType, dto.CreateSaleTypeRequest, dto.UpdateSaleTypeRequest]
	service *saletype.Service
}

// NewSaleTypeHandler creates the sale type handler.
func NewSaleTypeHandler(base *BaseHandler, service *saletype.Service) *SaleTypeHandler {
	config := CatalogHandlerConfig[
		*saletype.SaleType,
		dto.CreateSaleTypeRequest,
		dto.UpdateSaleTypeRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "sale_type",

		MapCreateDTO: func(req dto.CreateSaleTypeRequest) *saletype.SaleType {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateSaleTypeRequest, existing *saletype.SaleType) *saletype.SaleType {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *saletype.SaleType) any {
			return dto.FromSaleType(entity)
		},
	}

	return &SaleTypeHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Candidates handles GET /catalog/sale-types/candidates
// Lists the types usable in a company, in classification order.
func (h *SaleTypeHandler) Candidates(c *gin.Context) {
	requested, ok := h.ParseIDQuery(c, "companyId")
	if !ok {
		return
	}
	companyID, ok := h.CompanyID(c, requested)
	if !ok {
		return
	}

	types, err := h.service.Candidates(c.Request.Context(), companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(types))
	for i, t := range types {
		items[i] = dto.FromSaleType(t)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ProductDomain handles GET /catalog/sale-types/:id/product-domain
// Returns the search domain of the products the type accepts, ANDed with
// the optional filter parameter.
func (h *SaleTypeHandler) ProductDomain(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	f, ok := h.ListFilter(c)
	if !ok {
		return
	}

	d, err := h.service.ProductDomain(c.Request.Context(), typeID, f.Domain)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"domain": d})
}

// AddRule handles POST /catalog/sale-types/:id/rules
func (h *SaleTypeHandler) AddRule(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RuleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.AddRule(c.Request.Context(), typeID, req.ToRule())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSaleType(t))
}

// RemoveRule handles DELETE /catalog/sale-types/:id/rules/:ruleId
func (h *SaleTypeHandler) RemoveRule(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ruleID, ok := h.ParseID(c, "ruleId")
	if !ok {
		return
	}

	t, err := h.service.RemoveRule(c.Request.Context(), typeID, ruleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSaleType(t))
}
