package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/catalogs/partner"
	"saletype/internal/infrastructure/storage/postgres"
)

const (
	partnerTable          = "cat_partners"
	partnerSaleTypesTable = "cat_partner_sale_types"
)

// PartnerRepo implements partner.Repository. Company sale types live in
// their own table, keyed by (partner_id, company_id).
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
}

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txManager *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			partnerTable,
			postgres.ExtractDBColumns[partner.Partner](),
			func() *partner.Partner { return &partner.Partner{} },
		),
	}
}

// Create inserts the partner and its company sale types.
func (r *PartnerRepo) Create(ctx context.Context, p *partner.Partner) error {
	if err := r.BaseCatalogRepo.Create(ctx, p); err != nil {
		return err
	}
	return r.saveSaleTypes(ctx, p)
}

// Update modifies the partner and replaces its company sale types.
func (r *PartnerRepo) Update(ctx context.Context, p *partner.Partner) error {
	if err := r.BaseCatalogRepo.Update(ctx, p); err != nil {
		return err
	}
	return r.saveSaleTypes(ctx, p)
}

// GetByID retrieves a partner with its company sale types.
func (r *PartnerRepo) GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error) {
	p, err := r.BaseCatalogRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := r.loadSaleTypes(ctx, []*partner.Partner{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves partners with their company sale types.
func (r *PartnerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*partner.Partner], error) {
	res, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return res, err
	}
	return res, r.loadSaleTypes(ctx, res.Items)
}

// FindByEmail retrieves a partner by email.
func (r *PartnerRepo) FindByEmail(ctx context.Context, email string) (*partner.Partner, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("partner", email)
		}
		return nil, err
	}
	return p, r.loadSaleTypes(ctx, []*partner.Partner{p})
}

// CountReferencingSaleType counts partners using the sale type as default
// or as a company override.
func (r *PartnerRepo) CountReferencingSaleType(ctx context.Context, saleTypeID id.ID) (int64, error) {
	sql, args, err := r.countReferencingQuery(saleTypeID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count partners: %w", err)
	}
	return n, nil
}

func (r *PartnerRepo) countReferencingQuery(saleTypeID id.ID) squirrel.SelectBuilder {
	overrides := squirrel.
		Select("partner_id").
		From(partnerSaleTypesTable).
		Where(squirrel.Eq{"sale_type_id": saleTypeID})
	sub, args, _ := overrides.ToSql()

	return r.Builder().
		Select("COUNT(*)").
		From(partnerTable).
		Where(squirrel.Or{
			squirrel.Eq{"sale_type_id": saleTypeID},
			squirrel.Expr("id IN ("+sub+")", args...),
		})
}

func (r *PartnerRepo) saveSaleTypes(ctx context.Context, p *partner.Partner) error {
	q := r.Querier(ctx)

	sql, args, err := r.Builder().
		Delete(partnerSaleTypesTable).
		Where(squirrel.Eq{"partner_id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete partner sale types: %w", err)
	}

	if len(p.CompanySaleTypes) == 0 {
		return nil
	}
	ins := r.Builder().
		Insert(partnerSaleTypesTable).
		Columns("partner_id", "company_id", "sale_type_id")
	for _, cst := range p.CompanySaleTypes {
		ins = ins.Values(p.ID, cst.CompanyID, cst.SaleTypeID)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return r.mapWriteErr(err, "insert sale types of")
	}
	return nil
}

type partnerSaleTypeRow struct {
	PartnerID id.ID `db:"partner_id"`
	partner.CompanySaleType
}

func (r *PartnerRepo) loadSaleTypes(ctx context.Context, partners []*partner.Partner) error {
	if len(partners) == 0 {
		return nil
	}
	byID := make(map[id.ID]*partner.Partner, len(partners))
	ids := make([]id.ID, 0, len(partners))
	for _, p := range partners {
		p.CompanySaleTypes = nil
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	sql, args, err := r.Builder().
		Select("partner_id", "company_id", "sale_type_id").
		From(partnerSaleTypesTable).
		Where(squirrel.Eq{"partner_id": ids}).
		OrderBy("partner_id", "company_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var rows []partnerSaleTypeRow
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load partner sale types: %w", err)
	}
	for _, row := range rows {
		if p, ok := byID[row.PartnerID]; ok {
			p.CompanySaleTypes = append(p.CompanySaleTypes, row.CompanySaleType)
		}
	}
	return nil
}

var _ partner.Repository = (*PartnerRepo)(nil)
