package catalog_repo

import (
	"saletype/internal/domain/catalogs/category"
	"saletype/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_product_categories"

// NewCategoryRepo creates the product category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *BaseCatalogRepo[*category.Category] {
	return NewBaseCatalogRepo(
		txManager,
		categoryTable,
		postgres.ExtractDBColumns[category.Category](),
		func() *category.Category { return &category.Category{} },
	)
}

var _ category.Repository = (*BaseCatalogRepo[*category.Category])(nil)
