package catalog_repo

import (
	"saletype/internal/domain/mail"
	"saletype/internal/infrastructure/storage/postgres"
)

const mailTemplateTable = "cat_mail_templates"

// NewMailTemplateRepo creates the mail template repository.
func NewMailTemplateRepo(txManager *postgres.TxManager) *BaseCatalogRepo[*mail.Template] {
	return NewBaseCatalogRepo(
		txManager,
		mailTemplateTable,
		postgres.ExtractDBColumns[mail.Template](),
		func() *mail.Template { return &mail.Template{} },
	)
}

var _ mail.Repository = (*BaseCatalogRepo[*mail.Template])(nil)
