package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/warehouse"
	"saletype/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// ClearDefault clears the default flag on the company's warehouses.
func (r *WarehouseRepo) ClearDefault(ctx context.Context, companyID id.ID) error {
	q := r.Builder().
		Update(warehouseTable).
		Set("is_default", false).
		Where(squirrel.Eq{"is_default": true, "company_id": companyID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}
	return nil
}

// GetDefault returns the company's default warehouse.
func (r *WarehouseRepo) GetDefault(ctx context.Context, companyID id.ID) (*warehouse.Warehouse, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"company_id": companyID, "is_default": true, "deletion_mark": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)
