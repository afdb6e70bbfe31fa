package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"saletype/internal/domain/catalogs/company"
	"saletype/internal/infrastructure/storage/postgres"
)

const companyTable = "cat_companies"

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			companyTable,
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}

// GetDefault retrieves the company flagged as default.
func (r *CompanyRepo) GetDefault(ctx context.Context) (*company.Company, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"is_default": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ClearDefault removes the default flag from all companies.
func (r *CompanyRepo) ClearDefault(ctx context.Context) error {
	sql, args, err := r.Builder().
		Update(companyTable).
		Set("is_default", false).
		Where(squirrel.Eq{"is_default": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}
	return nil
}

var _ company.Repository = (*CompanyRepo)(nil)
