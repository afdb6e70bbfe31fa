package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
	"saletype/internal/i18n"
	"saletype/internal/metadata"
)

// MetadataHandler serves entity descriptions and translated labels.
type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

// NewMetadataHandler creates a metadata handler.
func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
	}
}

// ListEntities returns every registered entity.
// GET /api/v1/meta
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	locale := appctx.GetLocale(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"items": h.registry.List(locale)})
}

// GetEntity returns the full metadata for a specific entity.
// GET /api/v1/meta/:name
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	name := c.Param("name")
	def, ok := h.registry.Get(name, appctx.GetLocale(c.Request.Context()))
	if !ok {
		h.Error(c, apperror.NewNotFound("entity", name))
		return
	}
	c.JSON(http.StatusOK, def)
}

// SaleTypeLabels returns the translated labels of the sale type mail and
// report fields.
// GET /api/v1/meta/sale-types/labels
func (h *MetadataHandler) SaleTypeLabels(c *gin.Context) {
	locale := appctx.GetLocale(c.Request.Context())
	if locale == "" {
		locale = i18n.BaseLocale
	}
	c.JSON(http.StatusOK, gin.H{
		"locale": locale,
		"items":  i18n.FieldLabels(locale),
	})
}
