package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"saletype/internal/core/entity"
	"saletype/internal/core/id"
)

type typedCatalog struct {
	entity.Catalog
	Sequence   int      `db:"sequence"`
	JournalID  *id.ID   `db:"journal_id"`
	ProductIDs []id.ID  `db:"-"`
	Loaded     []string // untagged
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[typedCatalog]()

	for _, expected := range []string{
		"id", "deletion_mark", "version", "attributes",
		"code", "name", "parent_id", "is_folder", "sequence", "journal_id",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "product_ids")
}

func TestStructToMap(t *testing.T) {
	journal := id.New()
	cat := typedCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
			},
			Code: "ST-1",
			Name: "Direct sales",
		},
		Sequence:   20,
		JournalID:  &journal,
		ProductIDs: []id.ID{id.New()},
	}

	m := StructToMap(&cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "ST-1", m["code"])
	assert.Equal(t, "Direct sales", m["name"])
	assert.Equal(t, 20, m["sequence"])
	assert.Equal(t, &journal, m["journal_id"])
	assert.NotContains(t, m, "product_ids")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
