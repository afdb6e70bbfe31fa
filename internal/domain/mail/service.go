package mail

import (
	"context"

	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
)

// Repository defines persistence operations for mail templates.
type Repository interface {
	domain.CatalogRepository[*Template]
}

// Service manages mail templates.
type Service struct {
	*domain.CatalogService[*Template]
}

// NewService creates a new mail template service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Template]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "mail_template",
		CodePrefix: "MT",
	})
	svc := &Service{CatalogService: base}
	base.Hooks().OnBeforeCreate(defaultBody)
	base.Hooks().OnBeforeUpdate(defaultBody)
	return svc
}

// defaultBody keeps body-less templates renderable.
func defaultBody(_ context.Context, t *Template) error {
	if t.Body == "" {
		t.Body = t.Subject
	}
	return nil
}
