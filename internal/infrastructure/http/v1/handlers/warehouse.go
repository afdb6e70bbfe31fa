package handlers

import (
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/infrastructure/http/v1/dto"
)

// WarehouseHTTPHandler serves the warehouse catalog.
type WarehouseHTTPHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

// NewWarehouseHandler creates the warehouse handler.
func NewWarehouseHandler(
	base *BaseHandler,
	service *warehouse.Service,
) *WarehouseHTTPHandler {

	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// JournalHTTPHandler serves the journal catalog.
type JournalHTTPHandler = CatalogHandler[
	*journal.Journal,
	dto.CreateJournalRequest,
	dto.UpdateJournalRequest,
]

// NewJournalHandler creates the journal handler.
func NewJournalHandler(
	base *BaseHandler,
	service *journal.Service,
) *JournalHTTPHandler {

	config := CatalogHandlerConfig[
		*journal.Journal,
		dto.CreateJournalRequest,
		dto.UpdateJournalRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "journal",

		MapCreateDTO: func(req dto.CreateJournalRequest) *journal.Journal {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateJournalRequest, existing *journal.Journal) *journal.Journal {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *journal.Journal) any {
			return dto.FromJournal(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
