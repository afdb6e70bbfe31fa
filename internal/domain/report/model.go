// Package report provides report templates and print actions.
package report

import (
	"context"
	"regexp"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
)

// Output formats.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

var reportNameRE = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)+$`)

// Report is a printable document layout.
type Report struct {
	entity.Catalog

	// Model is the document model the report prints ("sale.order")
	Model string `db:"model" json:"model"`

	// ReportName is the technical layout name (e.g. "sale.report_saleorder")
	ReportName string `db:"report_name" json:"reportName"`

	Format Format `db:"format" json:"format"`
}

// NewReport creates a PDF report for a model.
func NewReport(code, name, model, reportName string) *Report {
	return &Report{
		Catalog:    entity.NewCatalog(code, name),
		Model:      model,
		ReportName: reportName,
		Format:     FormatPDF,
	}
}

// Validate implements entity.Validatable interface.
func (r *Report) Validate(ctx context.Context) error {
	if err := r.Catalog.Validate(ctx); err != nil {
		return err
	}
	if r.Model == "" {
		return apperror.NewValidation("model is required").
			WithDetail("field", "model")
	}
	if !reportNameRE.MatchString(r.ReportName) {
		return apperror.NewValidation("invalid report name").
			WithDetail("field", "reportName").
			WithDetail("value", r.ReportName)
	}
	switch r.Format {
	case FormatPDF, FormatHTML:
	default:
		return apperror.NewValidation("unsupported report format").
			WithDetail("field", "format")
	}
	return nil
}

// Action tells the client what to print.
type Action struct {
	Type       string   `json:"type"`
	ReportID   string   `json:"reportId"`
	ReportName string   `json:"reportName"`
	Format     Format   `json:"format"`
	Model      string   `json:"model"`
	RecordIDs  []string `json:"recordIds"`
	URL        string   `json:"url"`
}

// ActionType of every print action.
const ActionType = "ir.actions.report"
