package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/product"
	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
// Search domains may use categ_id, which is child_of aware.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	base := NewBaseCatalogRepo(
		txManager,
		productTable,
		postgres.ExtractDBColumns[product.Product](),
		func() *product.Product { return &product.Product{} },
	)
	base.Compiler().
		WithColumn(saletype.FieldCategory, "category_id").
		WithHierarchy(saletype.FieldCategory, categoryTable)
	return &ProductRepo{BaseCatalogRepo: base}
}

type productCategory struct {
	ID         id.ID `db:"id"`
	CategoryID id.ID `db:"category_id"`
}

// GetCategories maps each given product id to its category id.
func (r *ProductRepo) GetCategories(ctx context.Context, productIDs []id.ID) (map[id.ID]id.ID, error) {
	out := make(map[id.ID]id.ID, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	sql, args, err := r.Builder().
		Select("id", "category_id").
		From(productTable).
		Where(squirrel.Eq{"id": productIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productCategory
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get product categories: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.CategoryID
	}
	return out, nil
}

var _ product.Repository = (*ProductRepo)(nil)
