package catalog_repo

import (
	"saletype/internal/domain/catalogs/terms"
	"saletype/internal/infrastructure/storage/postgres"
)

// NewTermsRepos creates the repositories of the reference catalogs.
func NewTermsRepos(txManager *postgres.TxManager) terms.Repositories {
	return terms.Repositories{
		PaymentTerms: NewBaseCatalogRepo(txManager, "cat_payment_terms",
			postgres.ExtractDBColumns[terms.PaymentTerm](),
			func() *terms.PaymentTerm { return &terms.PaymentTerm{} }),
		Pricelists: NewBaseCatalogRepo(txManager, "cat_pricelists",
			postgres.ExtractDBColumns[terms.Pricelist](),
			func() *terms.Pricelist { return &terms.Pricelist{} }),
		Incoterms: NewBaseCatalogRepo(txManager, "cat_incoterms",
			postgres.ExtractDBColumns[terms.Incoterm](),
			func() *terms.Incoterm { return &terms.Incoterm{} }),
		Routes: NewBaseCatalogRepo(txManager, "cat_routes",
			postgres.ExtractDBColumns[terms.Route](),
			func() *terms.Route { return &terms.Route{} }),
	}
}
