// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"saletype/internal/app"
	"saletype/internal/infrastructure/http/v1/handlers"
	"saletype/internal/infrastructure/http/v1/middleware"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/internal/metadata"
	"saletype/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Health checks the database behind the API
	Health handlers.Database

	// App and Version are reported by /health/info
	App     string
	Version string

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Services are the domain services behind the handlers
	Services *app.Services

	// IdempotencyStore enables replay of mutating requests when set
	IdempotencyStore *postgres.IdempotencyStore

	// MetadataRegistry stores entity definitions
	MetadataRegistry *metadata.Registry

	// ClassifyLimit bounds the documents of one classify request
	ClassifyLimit int

	// Debug keeps gin in debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Locale())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Health, cfg.App, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Replays apply to mutating operations only
		if cfg.IdempotencyStore != nil {
			protected.Use(middleware.Idempotency(cfg.IdempotencyStore))
		}

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerMetaRoutes(protected, cfg)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()
	svc := cfg.Services

	// --- SALE TYPES ---
	{
		handler := handlers.NewSaleTypeHandler(baseHandler, svc.SaleTypes)
		group := catalogs.Group("/sale-types")
		group.GET("/candidates", middleware.RequirePermission("catalog:sale_type:read"), handler.Candidates)
		RegisterCatalogRoutes(group, handler, "catalog:sale_type")
		group.GET("/:id/product-domain", middleware.RequirePermission("catalog:sale_type:read"), handler.ProductDomain)
		group.POST("/:id/rules", middleware.RequirePermission("catalog:sale_type:update"), handler.AddRule)
		group.DELETE("/:id/rules/:ruleId", middleware.RequirePermission("catalog:sale_type:update"), handler.RemoveRule)
	}

	// --- PARTNERS ---
	{
		handler := handlers.NewPartnerHandler(baseHandler, svc.Partners)
		group := catalogs.Group("/partners")
		RegisterCatalogRoutes(group, handler, "catalog:partner")
		group.PUT("/:id/sale-type", middleware.RequirePermission("catalog:partner:update"), handler.AssignSaleType)
	}

	// --- COMPANIES ---
	RegisterCatalogRoutes(catalogs.Group("/companies"),
		handlers.NewCompanyHandler(baseHandler, svc.Companies), "catalog:company")

	// --- PRODUCTS ---
	RegisterCatalogRoutes(catalogs.Group("/product-categories"),
		handlers.NewCategoryHandler(baseHandler, svc.Categories), "catalog:product_category")
	RegisterCatalogRoutes(catalogs.Group("/products"),
		handlers.NewProductHandler(baseHandler, svc.Products, svc.SaleTypes), "catalog:product")

	// --- WAREHOUSES & JOURNALS ---
	RegisterCatalogRoutes(catalogs.Group("/warehouses"),
		handlers.NewWarehouseHandler(baseHandler, svc.Warehouses), "catalog:warehouse")
	RegisterCatalogRoutes(catalogs.Group("/journals"),
		handlers.NewJournalHandler(baseHandler, svc.Journals), "catalog:journal")

	// --- TERMS ---
	{
		th := handlers.NewTermsHandlers(baseHandler, svc.Terms)
		RegisterCatalogRoutes(catalogs.Group("/payment-terms"), th.PaymentTerms, "catalog:payment_term")
		RegisterCatalogRoutes(catalogs.Group("/pricelists"), th.Pricelists, "catalog:pricelist")
		RegisterCatalogRoutes(catalogs.Group("/incoterms"), th.Incoterms, "catalog:incoterm")
		RegisterCatalogRoutes(catalogs.Group("/routes"), th.Routes, "catalog:route")
	}

	// --- MAIL & REPORTS ---
	RegisterCatalogRoutes(catalogs.Group("/mail-templates"),
		handlers.NewMailTemplateHandler(baseHandler, svc.MailTemplates), "catalog:mail_template")
	RegisterCatalogRoutes(catalogs.Group("/reports"),
		handlers.NewReportHandler(baseHandler, svc.Reports), "catalog:report")
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()
	svc := cfg.Services

	// --- SALE ORDERS ---
	{
		handler := handlers.NewSaleOrderHandler(baseHandler, svc.SaleOrders)
		handler.SetClassifyLimit(cfg.ClassifyLimit)

		const perm = "document:sale_order"
		group := docsGroup.Group("/sale-orders")
		RegisterDocumentRoutes(group, handler, perm)
		group.POST("/:id/lines", middleware.RequirePermission(perm+":update"), handler.AddLine)
		group.PUT("/:id/lines/:lineNo/product", middleware.RequirePermission(perm+":update"), handler.SetLineProduct)
		group.POST("/:id/confirm", middleware.RequirePermission(perm+":confirm"), handler.Confirm)
		group.POST("/:id/invoice", middleware.RequirePermission("document:invoice:create"), handler.CreateInvoice)
		group.POST("/:id/send", middleware.RequirePermission(perm+":send"), handler.Send)
		group.GET("/:id/print", middleware.RequirePermission(perm+":read"), handler.Print)
	}

	// --- INVOICES ---
	{
		handler := handlers.NewInvoiceHandler(baseHandler, svc.Invoices)
		handler.SetClassifyLimit(cfg.ClassifyLimit)

		const perm = "document:invoice"
		group := docsGroup.Group("/invoices")
		RegisterDocumentRoutes(group, handler, perm)
		group.POST("/:id/post", middleware.RequirePermission(perm+":post"), handler.Post)
		group.POST("/:id/send", middleware.RequirePermission(perm+":send"), handler.Send)
		group.POST("/:id/refund", middleware.RequirePermission(perm+":create"), handler.Refund)
	}
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.MetadataRegistry == nil {
		return
	}

	handler := handlers.NewMetadataHandler(handlers.NewBaseHandler(), cfg.MetadataRegistry)
	meta := rg.Group("/meta")
	{
		meta.GET("", handler.ListEntities)
		meta.GET("/sale-types/labels", handler.SaleTypeLabels)
		meta.GET("/:name", handler.GetEntity)
	}
}
