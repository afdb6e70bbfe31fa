package terms

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Repositories groups the persistence of the reference catalogs.
type Repositories struct {
	PaymentTerms domain.CatalogRepository[*PaymentTerm]
	Pricelists   domain.CatalogRepository[*Pricelist]
	Incoterms    domain.CatalogRepository[*Incoterm]
	Routes       domain.CatalogRepository[*Route]
}

// Services exposes one catalog service per reference catalog.
type Services struct {
	PaymentTerms *domain.CatalogService[*PaymentTerm]
	Pricelists   *domain.CatalogService[*Pricelist]
	Incoterms    *domain.CatalogService[*Incoterm]
	Routes       *domain.CatalogService[*Route]
}

// NewServices creates the reference catalog services.
func NewServices(repos Repositories, txManager tx.Manager, numerator numerator.Generator) *Services {
	s := &Services{
		PaymentTerms: domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentTerm]{
			Repo: repos.PaymentTerms, TxManager: txManager, Numerator: numerator,
			EntityName: "payment_term", CodePrefix: "PT",
		}),
		Pricelists: domain.NewCatalogService(domain.CatalogServiceConfig[*Pricelist]{
			Repo: repos.Pricelists, TxManager: txManager, Numerator: numerator,
			EntityName: "pricelist", CodePrefix: "PL",
		}),
		Incoterms: domain.NewCatalogService(domain.CatalogServiceConfig[*Incoterm]{
			Repo: repos.Incoterms, TxManager: txManager,
			EntityName: "incoterm",
		}),
		Routes: domain.NewCatalogService(domain.CatalogServiceConfig[*Route]{
			Repo: repos.Routes, TxManager: txManager, Numerator: numerator,
			EntityName: "route", CodePrefix: "RT",
		}),
	}
	s.Pricelists.Hooks().OnBeforeCreate(upperCurrency)
	s.Pricelists.Hooks().OnBeforeUpdate(upperCurrency)
	return s
}

func upperCurrency(_ context.Context, p *Pricelist) error {
	b := []byte(p.CurrencyCode)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
		default:
			return apperror.NewValidation("currency code must be letters").
				WithDetail("field", "currencyCode")
		}
	}
	p.CurrencyCode = string(b)
	return nil
}
