package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

var invoiceLineCols = []string{
	"line_id", "line_no", "product_id", "name",
	"quantity", "price_unit", "subtotal",
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
	batch *postgres.BatchInserter
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
		batch: postgres.NewBatchInserter(txManager),
	}
}

func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	sql, args, err := r.Builder().
		Select(invoiceLineCols...).
		From(invoiceLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the lines. Runs inside the service transaction, so
// the rows are loaded with COPY.
func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	deleteSQL := "DELETE FROM " + invoiceLinesTable + " WHERE document_id = $1"
	if _, err := r.Querier(ctx).Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			docID, line.LineID, line.LineNo, line.ProductID, line.Description,
			line.Quantity, line.PriceUnit, line.Subtotal,
		})
	}
	_, err := r.batch.CopyFromSlice(ctx, invoiceLinesTable, append([]string{"document_id"}, invoiceLineCols...), rows)
	return err
}

func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return r.page(ctx, r.filterQuery(filter), filter.ListFilter)
}

func (r *InvoiceRepo) filterQuery(filter invoice.ListFilter) squirrel.SelectBuilder {
	q := r.listQuery(filter.ListFilter)

	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *filter.PartnerID})
	}
	if filter.SaleTypeID != nil {
		q = q.Where(squirrel.Eq{"sale_type_id": *filter.SaleTypeID})
	}
	if filter.SaleOrderID != nil {
		q = q.Where(squirrel.Eq{"sale_order_id": *filter.SaleOrderID})
	}
	if filter.MoveType != nil {
		q = q.Where(squirrel.Eq{"move_type": *filter.MoveType})
	}
	if filter.Posted != nil {
		q = q.Where(squirrel.Eq{"posted": *filter.Posted})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return q
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
