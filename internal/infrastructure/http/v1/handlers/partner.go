package handlers

import (
	"github.com/gin-gonic/gin"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/infrastructure/http/v1/dto"
)

// PartnerHandler serves the partner catalog and its sale type assignment.
type PartnerHandler struct {
	*CatalogHandler[*partner.Partner, dto.CreatePartnerRequest, dto.UpdatePartnerRequest]
	service *partner.Service
}

// NewPartnerHandler creates the partner handler.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *PartnerHandler {
	config := CatalogHandlerConfig[
		*partner.Partner,
		dto.CreatePartnerRequest,
		dto.UpdatePartnerRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "partner",

		MapCreateDTO: func(req dto.CreatePartnerRequest) *partner.Partner {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdatePartnerRequest, existing *partner.Partner) *partner.Partner {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *partner.Partner) any {
			return dto.FromPartner(entity)
		},
	}

	return &PartnerHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// AssignSaleType handles PUT /catalog/partners/:id/sale-type
func (h *PartnerHandler) AssignSaleType(c *gin.Context) {
	partnerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignSaleTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	companyID := id.Nil()
	if req.CompanyID != nil {
		companyID = *req.CompanyID
	}

	p, err := h.service.AssignSaleType(c.Request.Context(), partnerID, companyID, req.SaleTypeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPartner(p))
}
