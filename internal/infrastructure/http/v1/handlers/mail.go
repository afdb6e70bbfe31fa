package handlers

import (
	"saletype/internal/domain/mail"
	"saletype/internal/domain/report"
	"saletype/internal/infrastructure/http/v1/dto"
)

// MailTemplateHTTPHandler serves the mail template catalog.
type MailTemplateHTTPHandler = CatalogHandler[
	*mail.Template,
	dto.CreateMailTemplateRequest,
	dto.UpdateMailTemplateRequest,
]

// NewMailTemplateHandler creates the mail template handler.
func NewMailTemplateHandler(
	base *BaseHandler,
	service *mail.Service,
) *MailTemplateHTTPHandler {

	config := CatalogHandlerConfig[
		*mail.Template,
		dto.CreateMailTemplateRequest,
		dto.UpdateMailTemplateRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "mail_template",

		MapCreateDTO: func(req dto.CreateMailTemplateRequest) *mail.Template {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateMailTemplateRequest, existing *mail.Template) *mail.Template {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *mail.Template) any {
			return dto.FromMailTemplate(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// ReportHTTPHandler serves the report catalog.
type ReportHTTPHandler = CatalogHandler[
	*report.Report,
	dto.CreateReportRequest,
	dto.UpdateReportRequest,
]

// NewReportHandler creates the report handler.
func NewReportHandler(
	base *BaseHandler,
	service *report.Service,
) *ReportHTTPHandler {

	config := CatalogHandlerConfig[
		*report.Report,
		dto.CreateReportRequest,
		dto.UpdateReportRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "report",

		MapCreateDTO: func(req dto.CreateReportRequest) *report.Report {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateReportRequest, existing *report.Report) *report.Report {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *report.Report) any {
			return dto.FromReport(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
