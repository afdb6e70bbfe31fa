package sale_order

import (
	"context"
	"time"

	"saletype/internal/core/id"
	"saletype/internal/domain"
)

// Repository defines operations for sale orders.
type Repository interface {
	Create(ctx context.Context, doc *SaleOrder) error
	GetByID(ctx context.Context, docID id.ID) (*SaleOrder, error)
	GetByNumber(ctx context.Context, number string) (*SaleOrder, error)
	Update(ctx context.Context, doc *SaleOrder) error
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SaleOrder], error)
	GetForUpdate(ctx context.Context, docID id.ID) (*SaleOrder, error)
}

// ListFilter for filtering sale orders.
type ListFilter struct {
	domain.ListFilter

	PartnerID   *id.ID
	SaleTypeID  *id.ID
	WarehouseID *id.ID
	State       *State
	DateFrom    *time.Time
	DateTo      *time.Time
}
