package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/storage/postgres"
)

const (
	saleTypeTable          = "cat_sale_types"
	saleTypeRuleTable      = "cat_sale_type_rules"
	ruleProductsTable      = "cat_sale_type_rule_products"
	ruleCategoriesTable    = "cat_sale_type_rule_categories"
	saleTypeOrderByDefault = "sequence ASC, name ASC, id ASC"
)

// SaleTypeRepo implements saletype.Repository. Rules and their product
// and category lists are replaced as a whole on every write.
type SaleTypeRepo struct {
	*BaseCatalogRepo[*saletype.SaleType]
	batch *postgres.BatchInserter
}

// NewSaleTypeRepo creates a new sale type repository.
func NewSaleTypeRepo(txManager *postgres.TxManager) *SaleTypeRepo {
	return &SaleTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			saleTypeTable,
			postgres.ExtractDBColumns[saletype.SaleType](),
			func() *saletype.SaleType { return &saletype.SaleType{} },
		),
		batch: postgres.NewBatchInserter(txManager),
	}
}

// Create inserts the type with its rules.
func (r *SaleTypeRepo) Create(ctx context.Context, t *saletype.SaleType) error {
	if err := r.BaseCatalogRepo.Create(ctx, t); err != nil {
		return err
	}
	return r.saveRules(ctx, t)
}

// Update modifies the type and replaces its rules.
func (r *SaleTypeRepo) Update(ctx context.Context, t *saletype.SaleType) error {
	if err := r.BaseCatalogRepo.Update(ctx, t); err != nil {
		return err
	}
	return r.saveRules(ctx, t)
}

// GetByID retrieves a type with its rules.
func (r *SaleTypeRepo) GetByID(ctx context.Context, typeID id.ID) (*saletype.SaleType, error) {
	t, err := r.BaseCatalogRepo.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return t, r.loadRules(ctx, []*saletype.SaleType{t})
}

// GetByCode retrieves a type with its rules.
func (r *SaleTypeRepo) GetByCode(ctx context.Context, code string) (*saletype.SaleType, error) {
	t, err := r.BaseCatalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return t, r.loadRules(ctx, []*saletype.SaleType{t})
}

// List retrieves types with their rules.
func (r *SaleTypeRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*saletype.SaleType], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "sequence,name"
	}
	res, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return res, err
	}
	return res, r.loadRules(ctx, res.Items)
}

// FirstForCompany returns the first type whose company is companyID or none.
func (r *SaleTypeRepo) FirstForCompany(ctx context.Context, companyID id.ID) (*saletype.SaleType, error) {
	return r.FindOne(ctx, r.candidatesQuery(companyID).Limit(1))
}

// First returns the first type by (sequence, name).
func (r *SaleTypeRepo) First(ctx context.Context) (*saletype.SaleType, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy(saleTypeOrderByDefault).
		Limit(1)
	return r.FindOne(ctx, q)
}

// Candidates returns the types usable in the company with their rules.
func (r *SaleTypeRepo) Candidates(ctx context.Context, companyID id.ID) ([]*saletype.SaleType, error) {
	types, err := r.FindAll(ctx, r.candidatesQuery(companyID))
	if err != nil {
		return nil, err
	}
	return types, r.loadRules(ctx, types)
}

func (r *SaleTypeRepo) candidatesQuery(companyID id.ID) squirrel.SelectBuilder {
	return r.BaseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Or{
			squirrel.Eq{"company_id": nil},
			squirrel.Eq{"company_id": companyID},
		}).
		OrderBy(saleTypeOrderByDefault)
}

func (r *SaleTypeRepo) saveRules(ctx context.Context, t *saletype.SaleType) error {
	sql, args, err := r.Builder().
		Delete(saleTypeRuleTable).
		Where(squirrel.Eq{"sale_type_id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete rules: %w", err)
	}
	if len(t.Rules) == 0 {
		return nil
	}

	rules := make([][]any, 0, len(t.Rules))
	var products, categories [][]any
	for _, rule := range t.Rules {
		rules = append(rules, []any{rule.ID, t.ID, rule.Name, rule.Sequence})
		for _, p := range rule.ProductIDs {
			products = append(products, []any{rule.ID, p})
		}
		for _, c := range rule.CategoryIDs {
			categories = append(categories, []any{rule.ID, c})
		}
	}

	if _, err := r.batch.CopyFromSlice(ctx, saleTypeRuleTable, []string{"id", "sale_type_id", "name", "sequence"}, rules); err != nil {
		return err
	}
	if _, err := r.batch.CopyFromSlice(ctx, ruleProductsTable, []string{"rule_id", "product_id"}, products); err != nil {
		return err
	}
	if _, err := r.batch.CopyFromSlice(ctx, ruleCategoriesTable, []string{"rule_id", "category_id"}, categories); err != nil {
		return err
	}
	return nil
}

type ruleRef struct {
	RuleID id.ID `db:"rule_id"`
	RefID  id.ID `db:"ref_id"`
}

func (r *SaleTypeRepo) loadRules(ctx context.Context, types []*saletype.SaleType) error {
	if len(types) == 0 {
		return nil
	}
	byType := make(map[id.ID]*saletype.SaleType, len(types))
	typeIDs := make([]id.ID, 0, len(types))
	for _, t := range types {
		t.Rules = nil
		byType[t.ID] = t
		typeIDs = append(typeIDs, t.ID)
	}

	sql, args, err := r.rulesQuery(typeIDs).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	var rules []*saletype.Rule
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rules, sql, args...); err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		return nil
	}

	byRule := make(map[id.ID]*saletype.Rule, len(rules))
	ruleIDs := make([]id.ID, 0, len(rules))
	for _, rule := range rules {
		byRule[rule.ID] = rule
		ruleIDs = append(ruleIDs, rule.ID)
		if t, ok := byType[rule.SaleTypeID]; ok {
			t.Rules = append(t.Rules, rule)
		}
	}

	products, err := r.loadRefs(ctx, ruleProductsTable, "product_id", ruleIDs)
	if err != nil {
		return err
	}
	for _, ref := range products {
		byRule[ref.RuleID].ProductIDs = append(byRule[ref.RuleID].ProductIDs, ref.RefID)
	}

	categories, err := r.loadRefs(ctx, ruleCategoriesTable, "category_id", ruleIDs)
	if err != nil {
		return err
	}
	for _, ref := range categories {
		byRule[ref.RuleID].CategoryIDs = append(byRule[ref.RuleID].CategoryIDs, ref.RefID)
	}
	return nil
}

func (r *SaleTypeRepo) rulesQuery(typeIDs []id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("id", "sale_type_id", "name", "sequence").
		From(saleTypeRuleTable).
		Where(squirrel.Eq{"sale_type_id": typeIDs}).
		OrderBy("sequence ASC", "id ASC")
}

func (r *SaleTypeRepo) loadRefs(ctx context.Context, table, column string, ruleIDs []id.ID) ([]ruleRef, error) {
	sql, args, err := r.Builder().
		Select("rule_id", column+" AS ref_id").
		From(table).
		Where(squirrel.Eq{"rule_id": ruleIDs}).
		OrderBy("rule_id", column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var refs []ruleRef
	if err := pgxscan.Select(ctx, r.Querier(ctx), &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return refs, nil
}

var _ saletype.Repository = (*SaleTypeRepo)(nil)
