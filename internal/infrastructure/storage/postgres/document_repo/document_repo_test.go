package document_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/id"
	"saletype/internal/domain"
	"saletype/internal/domain/documents/invoice"
	"saletype/internal/domain/documents/sale_order"
)

func TestSaleOrderRepo_FilterQuery(t *testing.T) {
	repo := NewSaleOrderRepo(nil)
	partnerID := id.New()
	typeID := id.New()
	state := sale_order.StateDraft
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.filterQuery(sale_order.ListFilter{
		ListFilter: domain.ListFilter{Search: "SO"},
		PartnerID:  &partnerID,
		SaleTypeID: &typeID,
		State:      &state,
		DateFrom:   &from,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM doc_sale_orders WHERE deletion_mark = $1 AND number ILIKE $2 AND partner_id = $3 AND sale_type_id = $4 AND state = $5 AND date >= $6")
	// squirrel binds driver.Valuer results, so ids travel as strings
	assert.Equal(t, []any{false, "%SO%", partnerID.String(), typeID.String(), state, from}, args)
}

func TestSaleOrderRepo_Columns(t *testing.T) {
	repo := NewSaleOrderRepo(nil)

	assert.Contains(t, repo.selectCols, "sale_type_id")
	assert.Contains(t, repo.selectCols, "picking_policy")
	assert.Contains(t, repo.selectCols, "warehouse_id")
	assert.NotContains(t, repo.selectCols, "lines")
}

func TestInvoiceRepo_FilterQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	orderID := id.New()
	moveType := invoice.MoveOutRefund
	posted := true

	sql, args, err := repo.filterQuery(invoice.ListFilter{
		ListFilter:  domain.ListFilter{IncludeDeleted: true},
		SaleOrderID: &orderID,
		MoveType:    &moveType,
		Posted:      &posted,
	}).ToSql()
	require.NoError(t, err)

	_, where, ok := strings.Cut(sql, " WHERE ")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(where, "sale_order_id = $1 AND move_type = $2 AND posted = $3"), where)
	assert.NotContains(t, where, "deletion_mark")
	assert.Equal(t, []any{orderID.String(), moveType, posted}, args)
}

func TestParseOrderBy(t *testing.T) {
	repo := NewSaleOrderRepo(nil)

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default", orderBy: "", want: "date DESC"},
		{name: "ascending", orderBy: "number", want: "number ASC"},
		{name: "explicit ascending", orderBy: "+date", want: "date ASC"},
		{name: "descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "unknown column", orderBy: "amount; DROP TABLE x", wantErr: true},
		{name: "sign only", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
