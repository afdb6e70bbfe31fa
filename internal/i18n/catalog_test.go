package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en_US"},
		{header: "fr-FR,fr;q=0.9", want: "fr_FR"},
		{header: "fr", want: "fr_FR"},
		{header: "de-DE", want: "en_US"},
		{header: "de-DE, fr;q=0.5", want: "fr_FR"},
		{header: "en-GB", want: "en_US"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.header))
		})
	}
}

func TestFieldLabel(t *testing.T) {
	fr := FieldLabel("fr_FR", "invoice_mail_template_id")
	assert.Equal(t, "Modèle d'email factures", fr.Name)
	assert.Equal(t, "Choisir un modèle d'email de facture.", fr.Help)

	en := FieldLabel("en_US", "send_invoice_mail_automatically")
	assert.Equal(t, "Send invoice email automatically", en.Name)

	assert.Len(t, FieldLabels("fr"), len(LabeledFields))
}

func TestColumnLabel(t *testing.T) {
	l, ok := ColumnLabel("en_US", "report_id")
	assert.True(t, ok)
	assert.Equal(t, "quotation_report_id", l.Field)
	assert.Equal(t, "Quotation/order document template", l.Name)

	_, ok = ColumnLabel("en_US", "warehouse_id")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Envoyer SO-1 à Buyer ?", Text("fr_FR", KeySendConfirm, "SO-1", "Buyer"))
	assert.Equal(t, "Send SO-1 to Buyer?", Text("de_DE", KeySendConfirm, "SO-1", "Buyer"))
}
