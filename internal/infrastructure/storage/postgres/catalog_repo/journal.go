package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"saletype/internal/core/id"
	"saletype/internal/domain/catalogs/journal"
	"saletype/internal/infrastructure/storage/postgres"
)

const journalTable = "cat_journals"

// JournalRepo implements journal.Repository.
type JournalRepo struct {
	*BaseCatalogRepo[*journal.Journal]
}

// NewJournalRepo creates a new journal repository.
func NewJournalRepo(txManager *postgres.TxManager) *JournalRepo {
	return &JournalRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			journalTable,
			postgres.ExtractDBColumns[journal.Journal](),
			func() *journal.Journal { return &journal.Journal{} },
		),
	}
}

// GetDefault returns the first journal of the type in the company.
func (r *JournalRepo) GetDefault(ctx context.Context, companyID id.ID, journalType journal.JournalType) (*journal.Journal, error) {
	return r.FindOne(ctx, r.defaultQuery(companyID, journalType))
}

func (r *JournalRepo) defaultQuery(companyID id.ID, journalType journal.JournalType) squirrel.SelectBuilder {
	return r.BaseSelect().
		Where(squirrel.Eq{"company_id": companyID, "type": journalType, "deletion_mark": false}).
		OrderBy("sequence ASC", "id ASC").
		Limit(1)
}

var _ journal.Repository = (*JournalRepo)(nil)
