package domainsql

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/domain/filter"
)

func productCompiler() *Compiler {
	return New("cat_products", []string{"id", "name", "sale_ok", "categ_id", "list_price"}).
		WithHierarchy("categ_id", "cat_product_categories")
}

func toSQL(t *testing.T, pred squirrel.Sqlizer) (string, []any) {
	t.Helper()
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From("cat_products").Where(pred).ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		domain   filter.Domain
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty is true",
			domain:  filter.Domain{},
			wantSQL: "SELECT id FROM cat_products WHERE 1=1",
		},
		{
			name:     "rule under sale base",
			domain:   filter.Domain{filter.OpAnd, filter.NewLeaf("sale_ok", filter.Equal, true), filter.OpOr, filter.NewLeaf("categ_id", filter.InList, []string{"c1", "c2"}), filter.NewLeaf("id", filter.InList, []string{"p1"})},
			wantSQL:  "SELECT id FROM cat_products WHERE (sale_ok = $1 AND (categ_id IN ($2,$3) OR id IN ($4)))",
			wantArgs: []any{true, "c1", "c2", "p1"},
		},
		{
			name:     "implicit and",
			domain:   filter.Domain{filter.NewLeaf("list_price", filter.Greater, 10), filter.NewLeaf("name", filter.ILike, "desk")},
			wantSQL:  "SELECT id FROM cat_products WHERE (list_price > $1 AND name ILIKE $2)",
			wantArgs: []any{10, "%desk%"},
		},
		{
			name:     "not",
			domain:   filter.Domain{filter.OpNot, filter.NewLeaf("sale_ok", filter.Equal, true)},
			wantSQL:  "SELECT id FROM cat_products WHERE NOT (sale_ok = $1)",
			wantArgs: []any{true},
		},
		{
			name:    "equal if set with empty value",
			domain:  filter.Domain{filter.NewLeaf("categ_id", filter.EqualIfSet, nil)},
			wantSQL: "SELECT id FROM cat_products WHERE 1=1",
		},
		{
			name:    "false leaf",
			domain:  filter.FalseDomain,
			wantSQL: "SELECT id FROM cat_products WHERE 1=0",
		},
		{
			name:     "single value in",
			domain:   filter.Domain{filter.NewLeaf("id", filter.NotInList, "p1")},
			wantSQL:  "SELECT id FROM cat_products WHERE id NOT IN ($1)",
			wantArgs: []any{"p1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := productCompiler().Compile(tt.domain)
			require.NoError(t, err)

			sql, args := toSQL(t, pred)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestCompile_ChildOf(t *testing.T) {
	pred, err := productCompiler().Compile(filter.Domain{filter.NewLeaf("categ_id", filter.ChildOf, "c1")})
	require.NoError(t, err)

	sql, args := toSQL(t, pred)
	assert.Contains(t, sql, "categ_id IN (WITH RECURSIVE hierarchy AS (SELECT id FROM cat_product_categories WHERE id = ANY($1)")
	assert.Equal(t, []any{[]any{"c1"}}, args)
}

func TestCompile_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		domain filter.Domain
	}{
		{"unknown field", filter.Domain{filter.NewLeaf("password", filter.Equal, "x")}},
		{"child_of without hierarchy", filter.Domain{filter.NewLeaf("name", filter.ChildOf, "x")}},
		{"missing operand", filter.Domain{filter.OpOr, filter.NewLeaf("id", filter.Equal, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := productCompiler().Compile(tt.domain)
			require.Error(t, err)
			assert.True(t, apperror.IsAppError(err))
		})
	}
}
