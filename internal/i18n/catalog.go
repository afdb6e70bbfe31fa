// Package i18n holds the translated labels of the API and the locale
// negotiation helpers. Messages are registered with x/text/message at init.
package i18n

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the source locale of every message key.
const BaseLocale = "en_US"

// Label is the translated name and help text of a field.
type Label struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Help  string `json:"help"`
}

// LabeledFields are the sale type fields carrying translated labels.
var LabeledFields = []string{
	"mail_template_id",
	"quotation_report_id",
	"invoice_mail_template_id",
	"send_invoice_mail_automatically",
}

// labeledColumns maps sale type columns to their labeled field.
var labeledColumns = map[string]string{
	"mail_template_id":                "mail_template_id",
	"report_id":                       "quotation_report_id",
	"invoice_mail_template_id":        "invoice_mail_template_id",
	"send_invoice_mail_automatically": "send_invoice_mail_automatically",
}

// Message keys.
const (
	KeySendConfirm     = "sale_type.send.confirm"
	KeyTemplateMissing = "sale_type.send.template_missing"
	KeyNoReport        = "sale_type.print.no_report"
)

var catalogs = map[string]map[string]string{
	"en_US": {
		"sale_type.field.mail_template_id.name":                "Quotation/order email template",
		"sale_type.field.mail_template_id.help":                "Choose a quotation/order email template.",
		"sale_type.field.quotation_report_id.name":             "Quotation/order document template",
		"sale_type.field.quotation_report_id.help":             "Choose a document template.",
		"sale_type.field.invoice_mail_template_id.name":        "Invoice email template",
		"sale_type.field.invoice_mail_template_id.help":        "Choose an invoice email template.",
		"sale_type.field.send_invoice_mail_automatically.name": "Send invoice email automatically",
		"sale_type.field.send_invoice_mail_automatically.help": "If checked, the invoice email template is sent automatically",
		KeySendConfirm:     "Send %s to %s?",
		KeyTemplateMissing: "No email template is set on the sale type; compose the message manually.",
		KeyNoReport:        "No document template is set on the sale type.",
	},
	"fr_FR": {
		"sale_type.field.mail_template_id.name":                "Modèle d'email devis/commandes",
		"sale_type.field.mail_template_id.help":                "Choisir un modèle d'email de devis/commande.",
		"sale_type.field.quotation_report_id.name":             "Modèle de document devis/commandes",
		"sale_type.field.quotation_report_id.help":             "Choisir un modèle de document.",
		"sale_type.field.invoice_mail_template_id.name":        "Modèle d'email factures",
		"sale_type.field.invoice_mail_template_id.help":        "Choisir un modèle d'email de facture.",
		"sale_type.field.send_invoice_mail_automatically.name": "Envoyer l'email de facture automatiquement",
		"sale_type.field.send_invoice_mail_automatically.help": "Si cochée, envoyer automatiquement le modèle d'email de facture",
		KeySendConfirm:     "Envoyer %s à %s ?",
		KeyTemplateMissing: "Aucun modèle d'email n'est défini sur le type de vente ; rédigez le message manuellement.",
		KeyNoReport:        "Aucun modèle de document n'est défini sur le type de vente.",
	},
}

var (
	supported []language.Tag
	matcher   language.Matcher
)

func init() {
	locales := Locales()
	// Base locale first so the matcher falls back to it.
	sort.SliceStable(locales, func(i, j int) bool { return locales[i] == BaseLocale })

	for _, locale := range locales {
		tag := language.MustParse(toBCP47(locale))
		supported = append(supported, tag)
		for key, value := range catalogs[locale] {
			_ = message.SetString(tag, key, value)
			if base, conf := tag.Base(); conf != language.No {
				_ = message.SetString(language.Make(base.String()), key, value)
			}
		}
	}
	matcher = language.NewMatcher(supported)
}

// Locales returns the available locales, sorted.
func Locales() []string {
	out := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Match picks the best supported locale for an Accept-Language header value.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(acceptLanguage))
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return BaseLocale
	}
	return fromBCP47(supported[index])
}

// Normalize maps a language code ("fr", "fr-FR", "fr_FR") to a supported
// locale, falling back to the base locale.
func Normalize(lang string) string {
	if lang == "" {
		return BaseLocale
	}
	return Match(toBCP47(lang))
}

// Printer returns a message printer for locale.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(language.Make(toBCP47(Normalize(locale))))
}

// Text returns the translated message for key.
func Text(locale, key string, args ...any) string {
	return Printer(locale).Sprintf(key, args...)
}

// FieldLabel returns the translated label of a sale type field.
func FieldLabel(locale, field string) Label {
	p := Printer(locale)
	return Label{
		Field: field,
		Name:  p.Sprintf("sale_type.field." + field + ".name"),
		Help:  p.Sprintf("sale_type.field." + field + ".help"),
	}
}

// FieldLabels returns the labels of every labeled field.
func FieldLabels(locale string) []Label {
	out := make([]Label, 0, len(LabeledFields))
	for _, field := range LabeledFields {
		out = append(out, FieldLabel(locale, field))
	}
	return out
}

// ColumnLabel returns the label of a sale type column.
func ColumnLabel(locale, column string) (Label, bool) {
	field, ok := labeledColumns[column]
	if !ok {
		return Label{}, false
	}
	return FieldLabel(locale, field), true
}

func toBCP47(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}

func fromBCP47(tag language.Tag) string {
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No {
		return base.String()
	}
	return base.String() + "_" + region.String()
}
