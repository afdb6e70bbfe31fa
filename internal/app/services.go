// Package app assembles the repositories and domain services of the
// sale type system.
package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"saletype/internal/core/numerator"
	"saletype/internal/domain"
	"saletype/internal/domain/audit"
	"saletype/internal/domain/catalogs/category"
	"saletype/internal/domain/catalogs/company"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/catalogs/product"
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/domain/documents"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/documents/sale_order"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/cache"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/internal/infrastructure/storage/postgres/catalog_repo"
	"saletype/internal/infrastructure/storage/postgres/document_repo"
)

// Deps are the infrastructure pieces the services are built on.
type Deps struct {
	TxManager *postgres.TxManager
	Numerator numerator.Generator

	// Audit records sale type changes; nil disables the trail
	Audit audit.Recorder

	// Gateway delivers forced mail; Queue stores mail for the worker
	Gateway mail.Gateway
	Queue   mail.Queue

	// MailFrom is the sender address when the company has no email
	MailFrom string

	Reports     report.URLBuilder
	MatchPolicy saletype.MatchPolicy

	// CacheCandidates keeps classification candidates in memory. Listen is
	// the pool receiving invalidations from other instances; nil keeps the
	// cache local.
	CacheCandidates bool
	Listen          *postgres.Pool
}

// Services holds every domain service.
type Services struct {
	Companies     *company.Service
	Partners      *partner.Service
	Categories    *category.Service
	Products      *product.Service
	Warehouses    *warehouse.Service
	Journals      *journal.Service
	Terms         *terms.Services
	MailTemplates *mail.Service
	Reports       *report.Service
	SaleTypes     *saletype.Service
	SaleOrders    *sale_order.Service
	Invoices      *invoice.Service

	// Candidates is nil unless Deps.CacheCandidates is set
	Candidates *cache.CandidateCache
}

// NewServices wires repositories into services. Catalog services share
// one numerator; the document services share the type assigner.
func NewServices(deps Deps) *Services {
	txm := deps.TxManager
	num := deps.Numerator

	s := &Services{
		Companies:     company.NewService(catalog_repo.NewCompanyRepo(txm), txm, num),
		Partners:      partner.NewService(catalog_repo.NewPartnerRepo(txm), txm, num),
		Categories:    category.NewService(catalog_repo.NewCategoryRepo(txm), txm, num),
		Products:      product.NewService(catalog_repo.NewProductRepo(txm), txm, num),
		Warehouses:    warehouse.NewService(catalog_repo.NewWarehouseRepo(txm), txm, num),
		Journals:      journal.NewService(catalog_repo.NewJournalRepo(txm), txm, num),
		Terms:         terms.NewServices(catalog_repo.NewTermsRepos(txm), txm, num),
		MailTemplates: mail.NewService(catalog_repo.NewMailTemplateRepo(txm), txm, num),
		Reports:       report.NewService(catalog_repo.NewReportRepo(txm), txm, num, deps.Reports),
	}

	var typeRepo saletype.Repository = catalog_repo.NewSaleTypeRepo(txm)
	if deps.CacheCandidates {
		var listen *pgxpool.Pool
		if deps.Listen != nil {
			listen = deps.Listen.Pool
		}
		s.Candidates = cache.NewCandidateCache(typeRepo, listen)
		typeRepo = s.Candidates
	}

	s.SaleTypes = saletype.NewService(saletype.ServiceConfig{
		Repo:       typeRepo,
		TxManager:  txm,
		Numerator:  num,
		Journals:   s.Journals,
		Warehouses: s.Warehouses,
		Routes:     s.Terms.Routes,
		Audit:      deps.Audit,
		Policy:     deps.MatchPolicy,
	})

	resolver := saletype.NewResolver(s.Partners, s.SaleTypes)
	types := documents.NewTypeAssigner(s.SaleTypes, resolver, s.Products)
	requests := documents.NewMailRequests(s.Partners, s.Companies)
	sender := mail.NewSender(s.MailTemplates, deps.Gateway, deps.Queue, deps.MailFrom)

	s.Invoices = invoice.NewService(invoice.ServiceConfig{
		Repo:      document_repo.NewInvoiceRepo(txm),
		TxManager: txm,
		Numerator: num,
		Types:     types,
		Journals:  s.Journals,
		Requests:  requests,
		Mailer:    sender,
	})

	s.SaleOrders = sale_order.NewService(sale_order.ServiceConfig{
		Repo:      document_repo.NewSaleOrderRepo(txm),
		TxManager: txm,
		Numerator: num,
		Types:     types,
		Requests:  requests,
		Mailer:    sender,
		Printer:   s.Reports,
		Invoices:  s.Invoices,
	})

	registerUserHooks(s.SaleOrders.Hooks())
	registerUserHooks(s.Invoices.Hooks())

	return s
}

// registerUserHooks stamps the context user on documents.
func registerUserHooks[T any](hooks *domain.HookRegistry[T]) {
	hooks.OnBeforeCreate(func(ctx context.Context, doc T) error {
		return audit.EnrichCreatedBy(ctx, doc)
	})
	hooks.OnBeforeUpdate(func(ctx context.Context, doc T) error {
		return audit.EnrichUpdatedBy(ctx, doc)
	})
}
