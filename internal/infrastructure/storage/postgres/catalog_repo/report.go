package catalog_repo

import (
	"saletype/internal/domain/report"
	"saletype/internal/infrastructure/storage/postgres"
)

const reportTable = "cat_reports"

// NewReportRepo creates the report repository.
func NewReportRepo(txManager *postgres.TxManager) *BaseCatalogRepo[*report.Report] {
	return NewBaseCatalogRepo(
		txManager,
		reportTable,
		postgres.ExtractDBColumns[report.Report](),
		func() *report.Report { return &report.Report{} },
	)
}

var _ report.Repository = (*BaseCatalogRepo[*report.Report])(nil)
