// Package main seeds the database with a demo company, catalogs and two
// sale types with classification rules. Running it twice is harmless:
// records are looked up by code first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"saletype/internal/app"
	"saletype/internal/config"
	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/domain/audit"
	"saletype/internal/domain/catalogs/category"
	"saletype/internal/domain/catalogs/company"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/domain/catalogs/product"
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/numerator"
	infrareport "saletype/internal/infrastructure/report"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "directory holding config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, cfg.Database.PoolConfig(cfg.App.Name+"-seed"))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seeding never sends mail, so no gateway or queue is wired.
	services := app.NewServices(app.Deps{
		TxManager:   postgres.NewTxManager(pool),
		Numerator:   numerator.New(pool),
		Audit:       audit.Nop{},
		Reports:     infrareport.NewURLBuilder(cfg.Report.BaseURL),
		MatchPolicy: cfg.Classifier.MatchPolicy(),
	})

	if err := seedDemoData(ctx, services, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

// catalog is the part of a catalog service the seeder needs.
type catalog[T any] interface {
	GetByCode(ctx context.Context, code string) (T, error)
	Create(ctx context.Context, entity T) error
}

// ensure returns the record with code, creating it with build when missing.
func ensure[T any](ctx context.Context, svc catalog[T], code string, build func() T) (T, error) {
	existing, err := svc.GetByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	var zero T
	if !apperror.IsNotFound(err) {
		return zero, fmt.Errorf("look up %s: %w", code, err)
	}

	e := build()
	if err := svc.Create(ctx, e); err != nil {
		return zero, fmt.Errorf("create %s: %w", code, err)
	}
	return e, nil
}

func seedDemoData(ctx context.Context, s *app.Services, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Company and its stock / billing setup
	comp, err := ensure(ctx, s.Companies, "DEMO", func() *company.Company {
		c := company.NewCompany("DEMO", "Demo Company")
		c.IsDefault = true
		email := "sales@demo.example.com"
		c.Email = &email
		return c
	})
	if err != nil {
		return err
	}

	wh, err := ensure(ctx, s.Warehouses, "WH", func() *warehouse.Warehouse {
		w := warehouse.NewWarehouse("WH", "Main Warehouse", comp.ID)
		w.IsDefault = true
		return w
	})
	if err != nil {
		return err
	}

	saleJournal, err := ensure(ctx, s.Journals, "INV", func() *journal.Journal {
		return journal.NewJournal("INV", "Customer Invoices", journal.TypeSale, comp.ID)
	})
	if err != nil {
		return err
	}

	termNet30, err := ensure(ctx, s.Terms.PaymentTerms, "NET30", func() *terms.PaymentTerm {
		return &terms.PaymentTerm{Catalog: entity.NewCatalog("NET30", "30 Days"), DueDays: 30}
	})
	if err != nil {
		return err
	}

	dropship, err := ensure(ctx, s.Terms.Routes, "DROPSHIP", func() *terms.Route {
		return &terms.Route{Catalog: entity.NewCatalog("DROPSHIP", "Dropship"), SaleSelectable: true}
	})
	if err != nil {
		return err
	}

	// 2. Products: one category for services, two physical products
	services, err := ensure(ctx, s.Categories, "SRV", func() *category.Category {
		return category.NewCategory("SRV", "Services")
	})
	if err != nil {
		return err
	}
	goods, err := ensure(ctx, s.Categories, "GDS", func() *category.Category {
		return category.NewCategory("GDS", "Goods")
	})
	if err != nil {
		return err
	}

	if _, err := ensure(ctx, s.Products, "CONSULT", func() *product.Product {
		p := product.NewProduct("CONSULT", "Consulting Hour", services.ID)
		p.Type = product.TypeService
		return p
	}); err != nil {
		return err
	}
	desk, err := ensure(ctx, s.Products, "DESK", func() *product.Product {
		return product.NewProduct("DESK", "Office Desk", goods.ID)
	})
	if err != nil {
		return err
	}

	// 3. Mail and print templates of the quotation flow
	quoteMail, err := ensure(ctx, s.MailTemplates, "SO-MAIL", func() *mail.Template {
		t := mail.NewTemplate("SO-MAIL", "Quotation", mail.ModelSaleOrder)
		t.Subject = "{{ company.name }} Quotation (Ref {{ object.number }})"
		t.Body = "<p>Dear {{ partner.name }},</p><p>Please find attached quotation {{ object.number }}.</p>"
		return t
	})
	if err != nil {
		return err
	}
	quoteReport, err := ensure(ctx, s.Reports, "SO-PRINT", func() *report.Report {
		return report.NewReport("SO-PRINT", "Quotation / Order", mail.ModelSaleOrder, "sale.report_saleorder")
	})
	if err != nil {
		return err
	}

	// 4. Sale types: a default one and a service type picked by rules
	if _, err := ensure(ctx, s.SaleTypes, "NORMAL", func() *saletype.SaleType {
		t := saletype.NewSaleType("NORMAL", "Normal Order")
		t.Sequence = 1
		t.CompanyID = &comp.ID
		t.WarehouseID = &wh.ID
		t.JournalID = &saleJournal.ID
		t.QuotationTemplateID = &quoteMail.ID
		t.QuotationReportID = &quoteReport.ID
		return t
	}); err != nil {
		return err
	}

	serviceType, err := ensure(ctx, s.SaleTypes, "SERVICE", func() *saletype.SaleType {
		t := saletype.NewSaleType("SERVICE", "Service Order")
		prefix := "SRV"
		t.SequencePrefix = &prefix
		t.SequencePadding = 5
		t.SequenceIncludeYear = true
		t.CompanyID = &comp.ID
		t.JournalID = &saleJournal.ID
		t.PaymentTermID = &termNet30.ID
		t.PickingPolicy = saletype.PickingOne
		t.RouteID = &dropship.ID
		t.SendInvoiceMailAutomatically = true
		return t
	})
	if err != nil {
		return err
	}

	if len(serviceType.Rules) == 0 {
		rule := saletype.NewRule("Services and desks")
		rule.CategoryIDs = []id.ID{services.ID}
		rule.ProductIDs = []id.ID{desk.ID}
		if _, err := s.SaleTypes.AddRule(ctx, serviceType.ID, rule); err != nil {
			return fmt.Errorf("add rule: %w", err)
		}
	}

	// 5. A customer whose orders default to the service type
	if _, err := ensure(ctx, s.Partners, "ACME", func() *partner.Partner {
		p := partner.NewPartner("ACME", "ACME Corp", true)
		email := "purchase@acme.example.com"
		p.Email = &email
		p.SaleTypeID = &serviceType.ID
		return p
	}); err != nil {
		return err
	}

	log.Infow("demo data seeded", "company_id", comp.ID, "sale_type_id", serviceType.ID)
	return nil
}
