package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/core/id"
	"saletype/internal/domain/documents"
	"saletype/internal/infrastructure/http/v1/dto"
)

// DocumentService defines the interface that services must implement for BaseDocumentHandler.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id id.ID) error
	ChangeSaleType(ctx context.Context, docID, typeID id.ID) (T, []string, error)
	ChangePartner(ctx context.Context, docID, partnerID id.ID) (T, []string, error)
	Classify(ctx context.Context, ids []id.ID) ([]documents.ClassifyResult, error)
}

// BaseDocumentHandler provides generic HTTP handlers for sale typed documents.
type BaseDocumentHandler[T any, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    DocumentService[T]
	entityName string

	// classifyLimit bounds the ids of one classify request; 0 means no limit
	classifyLimit int

	// Mapper functions
	mapCreateDTO func(dto CreateDTO, companyID id.ID) T
	companyOf    func(dto CreateDTO) *id.ID
	mapUpdateDTO func(dto UpdateDTO, existing T) T
	mapToDTO     func(entity T) any
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T any, CreateDTO any, UpdateDTO any] struct {
	Service      DocumentService[T]
	EntityName   string
	MapCreateDTO func(dto CreateDTO, companyID id.ID) T
	CompanyOf    func(dto CreateDTO) *id.ID
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(entity T) any
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, CreateDTO, UpdateDTO],
) *BaseDocumentHandler[T, CreateDTO, UpdateDTO] {
	return &BaseDocumentHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		companyOf:    cfg.CompanyOf,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// SetClassifyLimit bounds the number of documents one classify request
// may name.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) SetClassifyLimit(n int) {
	h.classifyLimit = n
}

// Get handles GET /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(doc))
}

// Create handles POST /{entity}. The defaultSaleType query parameter is
// used when neither the request nor the partner resolves a type.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	var requested *id.ID
	if h.companyOf != nil {
		requested = h.companyOf(req)
	}
	companyID, ok := h.CompanyID(c, requested)
	if !ok {
		return
	}

	defaultType, ok := h.ParseIDQuery(c, "defaultSaleType")
	if !ok {
		return
	}
	if defaultType != nil {
		ctx = appctx.WithDefaultSaleType(ctx, *defaultType)
	}

	doc := h.mapCreateDTO(req, companyID)

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(doc))
}

// Update handles PUT /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc = h.mapUpdateDTO(req, doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(doc))
}

// Delete handles DELETE /{entity}/:id
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ChangeSaleType handles POST /{entity}/:id/type
// Responds with the document and the fields the type cascaded into it.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) ChangeSaleType(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeSaleTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, changed, err := h.service.ChangeSaleType(c.Request.Context(), docID, req.SaleTypeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.onchange(doc, changed))
}

// ChangePartner handles POST /{entity}/:id/partner
// The partner's sale type, if any, is applied as well.
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) ChangePartner(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, changed, err := h.service.ChangePartner(c.Request.Context(), docID, req.PartnerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.onchange(doc, changed))
}

// Classify handles POST /{entity}/classify
func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if h.classifyLimit > 0 && len(req.IDs) > h.classifyLimit {
		h.Error(c, apperror.NewValidation("too many documents to classify").
			WithDetail("limit", h.classifyLimit))
		return
	}

	results, err := h.service.Classify(c.Request.Context(), req.IDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": results})
}

func (h *BaseDocumentHandler[T, CreateDTO, UpdateDTO]) onchange(doc T, changed []string) dto.OnchangeResponse {
	if changed == nil {
		changed = []string{}
	}
	return dto.OnchangeResponse{Document: h.mapToDTO(doc), Changed: changed}
}
