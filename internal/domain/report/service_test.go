package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/domain/domaintest"
)

type joinURLs struct{}

func (joinURLs) URL(r *Report, recordIDs []id.ID) string {
	ids := make([]string, len(recordIDs))
	for i, v := range recordIDs {
		ids[i] = v.String()
	}
	return "/report/" + string(r.Format) + "/" + r.ReportName + "/" + strings.Join(ids, ",")
}

func TestService_Print(t *testing.T) {
	quotation := NewReport("RP1", "Quotation", "sale.order", "sale.report_saleorder")
	repo := domaintest.NewMemoryRepo("report", quotation)
	svc := NewService(repo, &domaintest.TxManager{}, &numerator.MockGenerator{}, joinURLs{})
	ctx := context.Background()
	recordID := id.New()

	tests := []struct {
		name     string
		reportID *id.ID
		model    string
		wantNil  bool
		wantCode string
	}{
		{name: "no report", wantNil: true},
		{name: "nil id", reportID: func() *id.ID { v := id.Nil(); return &v }(), wantNil: true},
		{name: "matching model", reportID: &quotation.ID, model: "sale.order"},
		{name: "other model", reportID: &quotation.ID, model: "account.move", wantCode: apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := svc.Print(ctx, tt.reportID, tt.model, []id.ID{recordID})
			if tt.wantCode != "" {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, action)
				return
			}
			require.NotNil(t, action)
			assert.Equal(t, ActionType, action.Type)
			assert.Equal(t, "sale.report_saleorder", action.ReportName)
			assert.Equal(t, FormatPDF, action.Format)
			assert.Equal(t, []string{recordID.String()}, action.RecordIDs)
			assert.Equal(t, "/report/pdf/sale.report_saleorder/"+recordID.String(), action.URL)
		})
	}
}

func TestReport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Report)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Report) {}},
		{name: "missing model", mutate: func(r *Report) { r.Model = "" }, wantErr: true},
		{name: "bad report name", mutate: func(r *Report) { r.ReportName = "Quotation PDF" }, wantErr: true},
		{name: "unknown format", mutate: func(r *Report) { r.Format = "docx" }, wantErr: true},
		{name: "html", mutate: func(r *Report) { r.Format = FormatHTML }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport("RP1", "Quotation", "sale.order", "sale.report_saleorder")
			tt.mutate(r)
			err := r.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
