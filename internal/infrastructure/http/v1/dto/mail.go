package dto

import (
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
)

// --- Mail template ---

// MailTemplateFields are the editable mail template fields.
type MailTemplateFields struct {
	Model     string  `json:"model" binding:"required"`
	Subject   string  `json:"subject"`
	BodyHTML  string  `json:"bodyHtml"`
	EmailFrom *string `json:"emailFrom"`
	Lang      *string `json:"lang"`
}

func (f *MailTemplateFields) applyTo(t *mail.Template) {
	t.Model = f.Model
	t.Subject = f.Subject
	t.Body = f.BodyHTML
	t.EmailFrom = f.EmailFrom
	t.Lang = f.Lang
}

// CreateMailTemplateRequest is the request body for creating a mail template.
type CreateMailTemplateRequest struct {
	CreateCatalogRequest
	MailTemplateFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateMailTemplateRequest) ToEntity() *mail.Template {
	t := mail.NewTemplate(r.Code, r.Name, r.Model)
	r.CreateCatalogRequest.ApplyTo(&t.Catalog)
	r.applyTo(t)
	return t
}

// UpdateMailTemplateRequest is the request body for updating a mail template.
type UpdateMailTemplateRequest struct {
	UpdateCatalogRequest
	MailTemplateFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateMailTemplateRequest) ApplyTo(t *mail.Template) {
	r.UpdateCatalogRequest.ApplyTo(&t.Catalog)
	r.applyTo(t)
}

// MailTemplateResponse is the response body for a mail template.
type MailTemplateResponse struct {
	CatalogResponse
	Model     string  `json:"model"`
	Subject   string  `json:"subject"`
	BodyHTML  string  `json:"bodyHtml"`
	EmailFrom *string `json:"emailFrom,omitempty"`
	Lang      *string `json:"lang,omitempty"`
}

// FromMailTemplate creates response DTO from domain entity.
func FromMailTemplate(t *mail.Template) *MailTemplateResponse {
	return &MailTemplateResponse{
		CatalogResponse: FromCatalog(t.Catalog),
		Model:           t.Model,
		Subject:         t.Subject,
		BodyHTML:        t.Body,
		EmailFrom:       t.EmailFrom,
		Lang:            t.Lang,
	}
}

// --- Report ---

// ReportFields are the editable report fields.
type ReportFields struct {
	Model      string        `json:"model" binding:"required"`
	ReportName string        `json:"reportName" binding:"required"`
	Format     report.Format `json:"format" binding:"omitempty,oneof=pdf html"`
}

func (f *ReportFields) applyTo(r *report.Report) {
	r.Model = f.Model
	r.ReportName = f.ReportName
	if f.Format != "" {
		r.Format = f.Format
	}
}

// CreateReportRequest is the request body for creating a report.
type CreateReportRequest struct {
	CreateCatalogRequest
	ReportFields
}

// ToEntity converts DTO to domain entity.
func (r *CreateReportRequest) ToEntity() *report.Report {
	rep := report.NewReport(r.Code, r.Name, r.Model, r.ReportName)
	r.CreateCatalogRequest.ApplyTo(&rep.Catalog)
	r.applyTo(rep)
	return rep
}

// UpdateReportRequest is the request body for updating a report.
type UpdateReportRequest struct {
	UpdateCatalogRequest
	ReportFields
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateReportRequest) ApplyTo(rep *report.Report) {
	r.UpdateCatalogRequest.ApplyTo(&rep.Catalog)
	r.applyTo(rep)
}

// ReportResponse is the response body for a report.
type ReportResponse struct {
	CatalogResponse
	Model      string        `json:"model"`
	ReportName string        `json:"reportName"`
	Format     report.Format `json:"format"`
}

// FromReport creates response DTO from domain entity.
func FromReport(r *report.Report) *ReportResponse {
	return &ReportResponse{
		CatalogResponse: FromCatalog(r.Catalog),
		Model:           r.Model,
		ReportName:      r.ReportName,
		Format:          r.Format,
	}
}
