package invoice

import (
	"context"
	"time"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines operations for invoices.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	PartnerID   *id.ID
	SaleTypeID  *id.ID
	SaleOrderID *id.ID
	MoveType    *MoveType
	Posted      *bool
	DateFrom    *time.Time
	DateTo      *time.Time
}
