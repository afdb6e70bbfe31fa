package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/filter"
)

type testItem struct {
	entity.Catalog
	Sequence int `db:"sequence"`
}

func newTestRepo() *BaseCatalogRepo[*testItem] {
	return NewBaseCatalogRepo[*testItem](nil, "test_table", []string{"id", "version", "code", "name", "sequence", "deletion_mark"},
		func() *testItem { return &testItem{} })
}

func TestBuildListQuery_Domain(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name     string
		domain   filter.Domain
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "greater",
			domain:   filter.Domain{filter.NewLeaf("sequence", filter.Greater, 10)},
			wantSQL:  "SELECT id, version, code, name, sequence, deletion_mark FROM test_table WHERE deletion_mark = $1 AND sequence > $2",
			wantArgs: []any{false, 10},
		},
		{
			name:     "or",
			domain:   filter.Domain{filter.OpOr, filter.NewLeaf("sequence", filter.Less, 5), filter.NewLeaf("code", filter.Equal, "A")},
			wantSQL:  "SELECT id, version, code, name, sequence, deletion_mark FROM test_table WHERE deletion_mark = $1 AND (sequence < $2 OR code = $3)",
			wantArgs: []any{false, 5, "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.buildListQuery(domain.ListFilter{Domain: tt.domain})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListQuery_RejectsUnknownField(t *testing.T) {
	repo := newTestRepo()
	_, err := repo.buildListQuery(domain.ListFilter{
		Domain: filter.Domain{filter.NewLeaf("secret", filter.Equal, 1)},
	})
	assert.Error(t, err)
}

func TestBuildListQuery_SearchAndDeleted(t *testing.T) {
	repo := newTestRepo()
	q, err := repo.buildListQuery(domain.ListFilter{Search: "ret", IncludeDeleted: true})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, version, code, name, sequence, deletion_mark FROM test_table WHERE (name ILIKE $1 OR code ILIKE $2)", sql)
	assert.Equal(t, []any{"%ret%", "%ret%"}, args)
}

func TestBuildUpdate_OptimisticLock(t *testing.T) {
	repo := newTestRepo()
	item := &testItem{Catalog: entity.NewCatalog("A", "Alpha"), Sequence: 3}
	item.Version = 4

	q, entityID, err := repo.buildUpdate(item)
	require.NoError(t, err)
	assert.Equal(t, item.ID, entityID)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE test_table SET code = $1, deletion_mark = $2, name = $3, sequence = $4, version = version + 1 WHERE id = $5 AND version = $6", sql)
	// squirrel.Eq resolves driver.Valuer, so the id arrives as its string form
	assert.Equal(t, []any{"A", false, "Alpha", 3, item.ID.String(), 4}, args)
}

func TestDeleteSQL(t *testing.T) {
	repo := newTestRepo()
	entityID := id.New()

	sql, args, err := repo.Builder().
		Delete(repo.tableName).
		Where("id = ?", entityID).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM test_table WHERE id = $1", sql)
	assert.Equal(t, []any{entityID}, args)
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	got, err = repo.parseOrderBy("sequence,-name")
	require.NoError(t, err)
	assert.Equal(t, "sequence ASC, name DESC", got)

	_, err = repo.parseOrderBy("drop table")
	assert.Error(t, err)
}
