package handlers

import (
	"github.com/gin-gonic/gin"

	"saletype/internal/domain/catalogs/product"
	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog. Listing accepts a saleType
// query parameter restricting the result to the products the type allows.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service   *product.Service
	saleTypes *saletype.Service
}

// NewProductHandler creates the product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, saleTypes *saletype.Service) *ProductHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
		saleTypes:      saleTypes,
	}
}

// List handles GET /catalog/products
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f, ok := h.ListFilter(c)
	if !ok {
		return
	}

	typeID, ok := h.ParseIDQuery(c, "saleType")
	if !ok {
		return
	}

	var restrictor product.Restrictor
	if typeID != nil {
		t, err := h.saleTypes.GetByID(ctx, *typeID)
		if err != nil {
			h.Error(c, err)
			return
		}
		restrictor = t
	}

	result, err := h.service.Search(ctx, f, restrictor)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.RespondList(c, result)
}
