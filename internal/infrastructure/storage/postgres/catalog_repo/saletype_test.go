package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/domain/filter"
	"saletype/internal/domain/saletype"
)

func TestSaleTypeRepo_CandidatesQuery(t *testing.T) {
	repo := NewSaleTypeRepo(nil)
	companyID := id.New()

	sql, args, err := repo.candidatesQuery(companyID).Limit(1).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM cat_sale_types WHERE deletion_mark = $1 AND (company_id IS NULL OR company_id = $2) ORDER BY sequence ASC, name ASC, id ASC LIMIT 1")
	assert.Equal(t, []any{false, companyID.String()}, args)
}

func TestSaleTypeRepo_RulesQuery(t *testing.T) {
	repo := NewSaleTypeRepo(nil)
	a, b := id.New(), id.New()

	sql, args, err := repo.rulesQuery([]id.ID{a, b}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, sale_type_id, name, sequence FROM cat_sale_type_rules WHERE sale_type_id IN ($1,$2) ORDER BY sequence ASC, id ASC", sql)
	assert.Len(t, args, 2)
}

func TestSaleTypeRepo_Columns(t *testing.T) {
	repo := NewSaleTypeRepo(nil)

	assert.Contains(t, repo.selectCols, "sequence_prefix")
	assert.Contains(t, repo.selectCols, "mail_template_id")
	assert.Contains(t, repo.selectCols, "invoice_mail_template_id")
	assert.Contains(t, repo.selectCols, "company_id")
	assert.NotContains(t, repo.selectCols, "rules")
}

func TestPartnerRepo_CountReferencingQuery(t *testing.T) {
	repo := NewPartnerRepo(nil)
	typeID := id.New()

	sql, args, err := repo.countReferencingQuery(typeID).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM cat_partners WHERE (sale_type_id = $1 OR id IN (SELECT partner_id FROM cat_partner_sale_types WHERE sale_type_id = $2))", sql)
	assert.Equal(t, []any{typeID.String(), typeID.String()}, args)
}

func TestJournalRepo_DefaultQuery(t *testing.T) {
	repo := NewJournalRepo(nil)
	companyID := id.New()

	sql, args, err := repo.defaultQuery(companyID, journal.TypeSale).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM cat_journals WHERE company_id = $1 AND deletion_mark = $2 AND type = $3 ORDER BY sequence ASC, id ASC LIMIT 1")
	assert.Equal(t, []any{companyID.String(), false, journal.TypeSale}, args)
}

func TestProductRepo_RuleDomain(t *testing.T) {
	repo := NewProductRepo(nil)
	category := id.New()
	product := id.New()

	st := saletype.NewSaleType("RET", "Retail")
	rule := saletype.NewRule("retail")
	rule.CategoryIDs = []id.ID{category}
	rule.ProductIDs = []id.ID{product}
	st.AddRule(rule)

	d, err := st.AddRulesToDomain(filter.Domain{filter.NewLeaf("sale_ok", filter.Equal, true)})
	require.NoError(t, err)

	q, err := repo.buildListQuery(domain.ListFilter{Domain: d})
	require.NoError(t, err)

	sql, _, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "sale_ok = $2")
	assert.Contains(t, sql, "category_id IN ($3)")
	assert.Contains(t, sql, "id IN ($4)")
}
