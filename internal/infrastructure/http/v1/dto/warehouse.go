package dto

import (
	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/warehouse"
)

// --- Warehouse ---

// WarehouseFields are the editable warehouse fields.
type WarehouseFields struct {
	Type      warehouse.WarehouseType `json:"type"`
	CompanyID id.ID                   `json:"companyId" binding:"required"`
	Address   *string                 `json:"address"`
	IsActive  *bool                   `json:"isActive"`
	IsDefault bool                    `json:"isDefault"`
}

func (f *WarehouseFields) applyTo(wh *warehouse.Warehouse) {
	if f.Type != "" {
		wh.Type = f.Type
	}
	wh.CompanyID = f.CompanyID
	wh.Address = f.Address
	if f.IsActive != nil {
		wh.IsActive = *f.IsActive
	}
	wh.IsDefault = f.IsDefault
}

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	CreateCatalogRequest
	WarehouseFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name, r.CompanyID)
	r.CreateCatalogRequest.ApplyTo(&wh.Catalog)
	r.applyTo(wh)
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	UpdateCatalogRequest
	WarehouseFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	r.UpdateCatalogRequest.ApplyTo(&wh.Catalog)
	r.applyTo(wh)
}

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	CatalogResponse
	Type      warehouse.WarehouseType `json:"type"`
	CompanyID string                  `json:"companyId"`
	Address   *string                 `json:"address,omitempty"`
	IsActive  bool                    `json:"isActive"`
	IsDefault bool                    `json:"isDefault"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		CatalogResponse: FromCatalog(wh.Catalog),
		Type:            wh.Type,
		CompanyID:       wh.CompanyID.String(),
		Address:         wh.Address,
		IsActive:        wh.IsActive,
		IsDefault:       wh.IsDefault,
	}
}

// --- Journal ---

// JournalFields are the editable journal fields.
type JournalFields struct {
	Type      journal.JournalType `json:"type" binding:"required"`
	CompanyID id.ID               `json:"companyId" binding:"required"`
	ShortCode string              `json:"shortCode" binding:"max=5"`
	Sequence  *int                `json:"sequence"`
}

func (f *JournalFields) applyTo(j *journal.Journal) {
	j.Type = f.Type
	j.CompanyID = f.CompanyID
	j.ShortCode = f.ShortCode
	if f.Sequence != nil {
		j.Sequence = *f.Sequence
	}
}

// CreateJournalRequest is the request body for creating a journal.
type CreateJournalRequest struct {
	CreateCatalogRequest
	JournalFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateJournalRequest) ToEntity() *journal.Journal {
	j := journal.NewJournal(r.Code, r.Name, r.Type, r.CompanyID)
	r.CreateCatalogRequest.ApplyTo(&j.Catalog)
	r.applyTo(j)
	return j
}

// UpdateJournalRequest is the request body for updating a journal.
type UpdateJournalRequest struct {
	UpdateCatalogRequest
	JournalFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateJournalRequest) ApplyTo(j *journal.Journal) {
	r.UpdateCatalogRequest.ApplyTo(&j.Catalog)
	r.applyTo(j)
}

// JournalResponse is the response body for a journal.
type JournalResponse struct {
	CatalogResponse
	Type      journal.JournalType `json:"type"`
	CompanyID string              `json:"companyId"`
	ShortCode string              `json:"shortCode,omitempty"`
	Sequence  int                 `json:"sequence"`
}

// FromJournal creates response DTO from domain entity.
func FromJournal(j *journal.Journal) *JournalResponse {
	return &JournalResponse{
		CatalogResponse: FromCatalog(j.Catalog),
		Type:            j.Type,
		CompanyID:       j.CompanyID.String(),
		ShortCode:       j.ShortCode,
		Sequence:        j.Sequence,
	}
}
