package documents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/documents/documentstest"
)

type quote struct {
	Number string `json:"number"`
	Total  string `json:"amountTotal"`
}

func TestMailRequests_Build(t *testing.T) {
	tests := []struct {
		name        string
		partnerLang string
		wantLang    string
	}{
		{name: "partner language", partnerLang: "de_DE", wantLang: "de_DE"},
		{name: "company language fallback", wantLang: "fr_FR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := documentstest.NewFixture()
			if tt.partnerLang != "" {
				f.Customer.Lang = &tt.partnerLang
			}
			templateID := id.New()
			recordID := id.New()

			req, err := f.Requests.Build(context.Background(), "sale.order", &templateID, recordID,
				f.Company.ID, f.Customer.ID, quote{Number: "SO-1", Total: "10.00"})
			require.NoError(t, err)

			assert.Equal(t, &templateID, req.TemplateID)
			assert.Equal(t, "sale.order", req.Model)
			assert.Equal(t, recordID, req.RecordID)
			assert.Equal(t, "buyer@example.com", req.To)
			assert.Equal(t, tt.wantLang, req.Lang)
			assert.Equal(t, "SO-1", req.Render.Object["number"])
			assert.Equal(t, "Buyer", req.Render.Partner["name"])
			assert.Equal(t, "Main Company", req.Render.Company["name"])
		})
	}
}

func TestMailRequests_Build_UnknownPartner(t *testing.T) {
	f := documentstest.NewFixture()

	_, err := f.Requests.Build(context.Background(), "sale.order", nil, id.New(), f.Company.ID, id.New(), quote{})
	assert.True(t, apperror.IsNotFound(err))
}
