// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID           string            `json:"id"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromBaseEntity creates BaseResponse from entity.BaseEntity.
func FromBaseEntity(b entity.BaseEntity) BaseResponse {
	return BaseResponse{
		ID:           b.ID.String(),
		DeletionMark: b.DeletionMark,
		Version:      b.Version,
		Attributes:   b.Attributes,
	}
}

// --- Catalog DTOs ---

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	BaseResponse
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
	IsFolder bool    `json:"isFolder"`
}

// FromCatalog creates CatalogResponse from entity.Catalog.
func FromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		BaseResponse: FromBaseEntity(c.BaseEntity),
		Code:         c.Code,
		Name:         c.Name,
		ParentID:     c.ParentID,
		IsFolder:     c.IsFolder,
	}
}

// CreateCatalogRequest holds the fields shared by catalog create requests.
// An empty code is generated by the numerator.
type CreateCatalogRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name" binding:"required"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
}

// ApplyTo copies the hierarchy and attributes onto a new catalog; code and
// name go through the entity constructor.
func (r *CreateCatalogRequest) ApplyTo(c *entity.Catalog) {
	c.ParentID = r.ParentID
	c.IsFolder = r.IsFolder
	c.Attributes = r.Attributes
}

// UpdateCatalogRequest holds the fields shared by catalog update requests.
// Version is the version the client read; a stale one fails with
// CONCURRENT_MODIFICATION.
type UpdateCatalogRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name" binding:"required"`
	ParentID   *string           `json:"parentId"`
	IsFolder   bool              `json:"isFolder"`
	Attributes entity.Attributes `json:"attributes"`
	Version    int               `json:"version" binding:"required,min=1"`
}

// ApplyTo copies the shared fields onto an existing catalog.
func (r *UpdateCatalogRequest) ApplyTo(c *entity.Catalog) {
	c.Code = r.Code
	c.Name = r.Name
	c.ParentID = r.ParentID
	c.IsFolder = r.IsFolder
	c.Attributes = r.Attributes
	c.Version = r.Version
}

// --- Document DTOs ---

// DocumentResponse contains document fields.
type DocumentResponse struct {
	BaseResponse
	Number        string    `json:"number"`
	Date          time.Time `json:"date"`
	Posted        bool      `json:"posted"`
	PostedVersion int       `json:"postedVersion"`
	CompanyID     string    `json:"companyId"`
	Comment       string    `json:"comment,omitempty"`
	SaleTypeID    *string   `json:"saleTypeId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	UpdatedBy     string    `json:"updatedBy,omitempty"`
}

// FromDocument creates DocumentResponse from a sale typed document.
func FromDocument(d entity.Document, st entity.SaleTyped) DocumentResponse {
	return DocumentResponse{
		BaseResponse:  FromBaseEntity(d.BaseEntity),
		Number:        d.Number,
		Date:          d.Date,
		Posted:        d.Posted,
		PostedVersion: d.PostedVersion,
		CompanyID:     d.CompanyID.String(),
		Comment:       d.Comment,
		SaleTypeID:    IDString(st.SaleTypeID),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		CreatedBy:     d.CreatedBy,
		UpdatedBy:     d.UpdatedBy,
	}
}

// IDString formats an optional id.
func IDString(v *id.ID) *string {
	if v == nil || id.IsNil(*v) {
		return nil
	}
	s := v.String()
	return &s
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Deletion ---

// SetDeletionMarkRequest sets or clears the deletion mark.
type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}

// --- Sale type operations shared by documents ---

// ClassifyRequest lists the documents to reclassify.
type ClassifyRequest struct {
	IDs []id.ID `json:"ids" binding:"required,min=1"`
}

// ChangeSaleTypeRequest attaches a sale type to a document.
type ChangeSaleTypeRequest struct {
	SaleTypeID id.ID `json:"saleTypeId" binding:"required"`
}

// ChangePartnerRequest changes the document partner.
type ChangePartnerRequest struct {
	PartnerID id.ID `json:"partnerId" binding:"required"`
}

// OnchangeResponse returns the document and the fields a change cascaded into.
type OnchangeResponse struct {
	Document any      `json:"document"`
	Changed  []string `json:"changed"`
}
