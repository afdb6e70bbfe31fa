package handlers

import (
	"saletype/internal/domain"
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/infrastructure/http/v1/dto"
)

// TermsHandlers serves the reference catalogs a sale type points to.
type TermsHandlers struct {
	PaymentTerms *PaymentTermHTTPHandler
	Pricelists   *PricelistHTTPHandler
	Incoterms    *IncotermHTTPHandler
	Routes       *RouteHTTPHandler
}

// NewTermsHandlers creates the reference catalog handlers.
func NewTermsHandlers(base *BaseHandler, services *terms.Services) *TermsHandlers {
	return &TermsHandlers{
		PaymentTerms: NewPaymentTermHandler(base, services.PaymentTerms),
		Pricelists:   NewPricelistHandler(base, services.Pricelists),
		Incoterms:    NewIncotermHandler(base, services.Incoterms),
		Routes:       NewRouteHandler(base, services.Routes),
	}
}

// PaymentTermHTTPHandler serves the payment term catalog.
type PaymentTermHTTPHandler = CatalogHandler[
	*terms.PaymentTerm,
	dto.CreatePaymentTermRequest,
	dto.UpdatePaymentTermRequest,
]

// NewPaymentTermHandler creates the payment term handler.
func NewPaymentTermHandler(
	base *BaseHandler,
	service *domain.CatalogService[*terms.PaymentTerm],
) *PaymentTermHTTPHandler {

	config := CatalogHandlerConfig[
		*terms.PaymentTerm,
		dto.CreatePaymentTermRequest,
		dto.UpdatePaymentTermRequest,
	]{
		Service:    service,
		EntityName: "payment_term",

		MapCreateDTO: func(req dto.CreatePaymentTermRequest) *terms.PaymentTerm {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdatePaymentTermRequest, existing *terms.PaymentTerm) *terms.PaymentTerm {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *terms.PaymentTerm) any {
			return dto.FromPaymentTerm(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// PricelistHTTPHandler serves the pricelist catalog.
type PricelistHTTPHandler = CatalogHandler[
	*terms.Pricelist,
	dto.CreatePricelistRequest,
	dto.UpdatePricelistRequest,
]

// NewPricelistHandler creates the pricelist handler.
func NewPricelistHandler(
	base *BaseHandler,
	service *domain.CatalogService[*terms.Pricelist],
) *PricelistHTTPHandler {

	config := CatalogHandlerConfig[
		*terms.Pricelist,
		dto.CreatePricelistRequest,
		dto.UpdatePricelistRequest,
	]{
		Service:    service,
		EntityName: "pricelist",

		MapCreateDTO: func(req dto.CreatePricelistRequest) *terms.Pricelist {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdatePricelistRequest, existing *terms.Pricelist) *terms.Pricelist {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *terms.Pricelist) any {
			return dto.FromPricelist(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// IncotermHTTPHandler serves the incoterm catalog.
type IncotermHTTPHandler = CatalogHandler[
	*terms.Incoterm,
	dto.CreateIncotermRequest,
	dto.UpdateIncotermRequest,
]

// NewIncotermHandler creates the incoterm handler.
func NewIncotermHandler(
	base *BaseHandler,
	service *domain.CatalogService[*terms.Incoterm],
) *IncotermHTTPHandler {

	config := CatalogHandlerConfig[
		*terms.Incoterm,
		dto.CreateIncotermRequest,
		dto.UpdateIncotermRequest,
	]{
		Service:    service,
		EntityName: "incoterm",

		MapCreateDTO: func(req dto.CreateIncotermRequest) *terms.Incoterm {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateIncotermRequest, existing *terms.Incoterm) *terms.Incoterm {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *terms.Incoterm) any {
			return dto.FromIncoterm(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// RouteHTTPHandler serves the route catalog.
type RouteHTTPHandler = CatalogHandler[
	*terms.Route,
	dto.CreateRouteRequest,
	dto.UpdateRouteRequest,
]

// NewRouteHandler creates the route handler.
func NewRouteHandler(
	base *BaseHandler,
	service *domain.CatalogService[*terms.Route],
) *RouteHTTPHandler {

	config := CatalogHandlerConfig[
		*terms.Route,
		dto.CreateRouteRequest,
		dto.UpdateRouteRequest,
	]{
		Service:    service,
		EntityName: "route",

		MapCreateDTO: func(req dto.CreateRouteRequest) *terms.Route {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateRouteRequest, existing *terms.Route) *terms.Route {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *terms.Route) any {
			return dto.FromRoute(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
