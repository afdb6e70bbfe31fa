package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"saletype/internal/core/id"
	domainreport "saletype/internal/domain/report"
)

func TestURLBuilder_URL(t *testing.T) {
	a := id.MustParse("0190a9f2-0000-7000-8000-000000000001")
	b := id.MustParse("0190a9f2-0000-7000-8000-000000000002")
	r := domainreport.NewReport("RP-1", "Quotation", "sale.order", "sale.report_saleorder")

	tests := []struct {
		name string
		base string
		ids  []id.ID
		want string
	}{
		{
			name: "single record",
			base: "https://erp.example.com",
			ids:  []id.ID{a},
			want: "https://erp.example.com/report/pdf/sale.report_saleorder/0190a9f2-0000-7000-8000-000000000001",
		},
		{
			name: "trailing slash and two records",
			base: "https://erp.example.com/",
			ids:  []id.ID{a, b},
			want: "https://erp.example.com/report/pdf/sale.report_saleorder/" +
				"0190a9f2-0000-7000-8000-000000000001,0190a9f2-0000-7000-8000-000000000002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewURLBuilder(tt.base).URL(r, tt.ids))
		})
	}
}
