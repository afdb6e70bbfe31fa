package report

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/core/numerator"
	"saletype/internal/core/tx"
	"saletype/internal/domain"
	"saletype/pkg/logger"
)

// Repository defines persistence operations for reports.
type Repository interface {
	domain.CatalogRepository[*Report]
}

// URLBuilder renders the download location of a report.
type URLBuilder interface {
	URL(r *Report, recordIDs []id.ID) string
}

// Service manages reports and builds print actions.
type Service struct {
	*domain.CatalogService[*Report]
	urls URLBuilder
}

// NewService creates a new report service.
func NewService(repo Repository, txManager tx.Manager, numerator numerator.Generator, urls URLBuilder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Report]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "report",
		CodePrefix: "RP",
	})
	return &Service{CatalogService: base, urls: urls}
}

// Print returns the action printing records with the report.
// A nil reportID yields a nil action: nothing is printed.
func (s *Service) Print(ctx context.Context, reportID *id.ID, model string, recordIDs []id.ID) (*Action, error) {
	if reportID == nil || id.IsNil(*reportID) {
		return nil, nil
	}
	r, err := s.GetByID(ctx, *reportID)
	if err != nil {
		return nil, err
	}
	if r.Model != model {
		return nil, apperror.NewValidation("report belongs to another model").
			WithDetail("report_id", r.ID.String()).
			WithDetail("model", r.Model)
	}

	ids := make([]string, len(recordIDs))
	for i, rid := range recordIDs {
		ids[i] = rid.String()
	}
	logger.Debug(ctx, "print action built", "report", r.ReportName, "records", len(ids))

	return &Action{
		Type:       ActionType,
		ReportID:   r.ID.String(),
		ReportName: r.ReportName,
		Format:     r.Format,
		Model:      model,
		RecordIDs:  ids,
		URL:        s.urls.URL(r, recordIDs),
	}, nil
}
