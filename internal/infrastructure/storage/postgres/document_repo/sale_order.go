package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/documents/sale_order"
	"saletype/internal/infrastructure/storage/postgres"
)

const (
	saleOrdersTable     = "doc_sale_orders"
	saleOrderLinesTable = "doc_sale_order_lines"
)

var saleOrderLineCols = []string{
	"line_id", "line_no", "product_id", "name",
	"quantity", "price_unit", "subtotal", "route_id",
}

// SaleOrderRepo implements sale_order.Repository.
type SaleOrderRepo struct {
	*BaseDocumentRepo[*sale_order.SaleOrder]
}

// NewSaleOrderRepo creates a new sale order repository.
func NewSaleOrderRepo(txManager *postgres.TxManager) *SaleOrderRepo {
	return &SaleOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			saleOrdersTable,
			postgres.ExtractDBColumns[sale_order.SaleOrder](),
			func() *sale_order.SaleOrder { return &sale_order.SaleOrder{} },
		),
	}
}

func (r *SaleOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]sale_order.Line, error) {
	sql, args, err := r.Builder().
		Select(saleOrderLineCols...).
		From(saleOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sale_order.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

func (r *SaleOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []sale_order.Line) error {
	querier := r.Querier(ctx)

	deleteSQL := "DELETE FROM " + saleOrderLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(saleOrderLinesTable).
		Columns(append([]string{"document_id"}, saleOrderLineCols...)...)
	for _, line := range lines {
		q = q.Values(
			docID, line.LineID, line.LineNo, line.ProductID, line.Description,
			line.Quantity, line.PriceUnit, line.Subtotal, line.RouteID,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *SaleOrderRepo) List(ctx context.Context, filter sale_order.ListFilter) (domain.ListResult[*sale_order.SaleOrder], error) {
	return r.page(ctx, r.filterQuery(filter), filter.ListFilter)
}

func (r *SaleOrderRepo) filterQuery(filter sale_order.ListFilter) squirrel.SelectBuilder {
	q := r.listQuery(filter.ListFilter)

	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *filter.PartnerID})
	}
	if filter.SaleTypeID != nil {
		q = q.Where(squirrel.Eq{"sale_type_id": *filter.SaleTypeID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.State != nil {
		q = q.Where(squirrel.Eq{"state": *filter.State})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return q
}

var _ sale_order.Repository = (*SaleOrderRepo)(nil)
