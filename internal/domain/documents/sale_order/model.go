// Package sale_order provides the SaleOrder document (quotations and
// confirmed sale orders).
package sale_order

import (
	"context"

	"github.com/shopspring/decimal"

	"saletype/internal/core/apperror"
	"saletype/internal/core/entity"
	"saletype/internal/core/id"
	"saletype/internal/core/types"
	"saletype/internal/domain/saletype"
)

// Model is the document model name used by mail templates and reports.
const Model = "sale.order"

// State of an order.
type State string

const (
	StateDraft  State = "draft"
	StateSent   State = "sent"
	StateSale   State = "sale"
	StateCancel State = "cancel"
)

// SaleOrder is a quotation until confirmed, then a sale order.
type SaleOrder struct {
	entity.Document
	entity.SaleTyped

	PartnerID id.ID `db:"partner_id" json:"partnerId"`

	WarehouseID   *id.ID                 `db:"warehouse_id" json:"warehouseId,omitempty"`
	PickingPolicy saletype.PickingPolicy `db:"picking_policy" json:"pickingPolicy"`
	PaymentTermID *id.ID                 `db:"payment_term_id" json:"paymentTermId,omitempty"`
	PricelistID   *id.ID                 `db:"pricelist_id" json:"pricelistId,omitempty"`
	IncotermID    *id.ID                 `db:"incoterm_id" json:"incotermId,omitempty"`

	State State `db:"state" json:"state"`

	AmountTotal types.Money `db:"amount_total" json:"amountTotal"`

	// Table part: ordered products
	Lines []Line `db:"-" json:"lines"`
}

// Line is a line of a sale order.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID           `db:"product_id" json:"productId"`
	Description string          `db:"name" json:"name,omitempty"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	PriceUnit   types.Money     `db:"price_unit" json:"priceUnit"`
	Subtotal    types.Money     `db:"subtotal" json:"subtotal"`

	// RouteID follows the order type route when the type has one
	RouteID *id.ID `db:"route_id" json:"routeId,omitempty"`
}

// NewSaleOrder creates a draft quotation. The number stays "/" until
// the order is saved.
func NewSaleOrder(companyID, partnerID id.ID) *SaleOrder {
	doc := entity.NewDocument(companyID)
	doc.Number = "/"
	return &SaleOrder{
		Document:      doc,
		PartnerID:     partnerID,
		PickingPolicy: saletype.PickingDirect,
		State:         StateDraft,
		AmountTotal:   types.Zero(),
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a line and recalculates the total.
func (o *SaleOrder) AddLine(productID id.ID, quantity decimal.Decimal, priceUnit types.Money) *Line {
	o.Lines = append(o.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(o.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		PriceUnit: priceUnit,
	})
	o.recalculate()
	return &o.Lines[len(o.Lines)-1]
}

// Line returns the line with the given number.
func (o *SaleOrder) Line(lineNo int) (*Line, error) {
	for i := range o.Lines {
		if o.Lines[i].LineNo == lineNo {
			return &o.Lines[i], nil
		}
	}
	return nil, apperror.NewNotFound("sale_order_line", lineNo)
}

func (o *SaleOrder) recalculate() {
	total := types.Zero()
	for i := range o.Lines {
		l := &o.Lines[i]
		l.Subtotal = types.Subtotal(l.PriceUnit, l.Quantity)
		total = total.Add(l.Subtotal)
	}
	o.AmountTotal = total
}

// ProductIDs returns the products of the lines.
func (o *SaleOrder) ProductIDs() []id.ID {
	ids := make([]id.ID, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func (o *SaleOrder) defaults() saletype.Defaults {
	return saletype.Defaults{
		WarehouseID:   o.WarehouseID,
		PickingPolicy: o.PickingPolicy,
		PaymentTermID: o.PaymentTermID,
		PricelistID:   o.PricelistID,
		IncotermID:    o.IncotermID,
	}
}

// ApplySaleType attaches t and cascades its defaults: the header takes
// warehouse, picking policy, payment term, pricelist and incoterm, every
// line takes the route. Unset type attributes keep the order's values.
// Returns the names of the fields that were set.
func (o *SaleOrder) ApplySaleType(t *saletype.SaleType) []string {
	o.SetSaleTypeID(t.ID)
	d := t.Defaults()

	cur := o.defaults()
	changed := d.ForOrder().CascadeInto(&cur)
	o.WarehouseID = cur.WarehouseID
	o.PickingPolicy = cur.PickingPolicy
	o.PaymentTermID = cur.PaymentTermID
	o.PricelistID = cur.PricelistID
	o.IncotermID = cur.IncotermID

	if d.RouteID != nil && len(o.Lines) > 0 {
		for i := range o.Lines {
			o.ApplyLineRoute(&o.Lines[i], t)
		}
		changed = append(changed, "order_line.route_id")
	}
	return changed
}

// ApplyLineRoute sets the line route from t when t has one.
func (o *SaleOrder) ApplyLineRoute(l *Line, t *saletype.SaleType) {
	if t == nil || t.RouteID == nil || id.IsNil(*t.RouteID) {
		return
	}
	r := *t.RouteID
	l.RouteID = &r
}

// CanModify rejects changes to confirmed and cancelled orders.
func (o *SaleOrder) CanModify() error {
	if err := o.Document.CanModify(); err != nil {
		return err
	}
	if o.State == StateCancel {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Cannot modify a cancelled order.").
			WithDetail("document_id", o.ID.String())
	}
	return nil
}

// Confirm turns the quotation into a sale order.
func (o *SaleOrder) Confirm() error {
	if err := o.CanModify(); err != nil {
		return err
	}
	o.State = StateSale
	o.MarkPosted()
	return nil
}

// MarkSent moves a draft quotation to sent.
func (o *SaleOrder) MarkSent() {
	if o.State == StateDraft {
		o.State = StateSent
	}
}

// Validate implements entity.Validatable.
func (o *SaleOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.PartnerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "partnerId")
	}

	if !o.PickingPolicy.Valid() || o.PickingPolicy == "" {
		return apperror.NewValidation("invalid picking policy").
			WithDetail("field", "pickingPolicy").
			WithDetail("value", string(o.PickingPolicy))
	}

	switch o.State {
	case StateDraft, StateSent, StateSale, StateCancel:
	default:
		return apperror.NewValidation("invalid state").
			WithDetail("field", "state")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.PriceUnit.IsNegative() {
			return apperror.NewValidation("price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// AttachSaleType implements saletype.Target.
func (o *SaleOrder) AttachSaleType(t *saletype.SaleType) error {
	o.ApplySaleType(t)
	return nil
}

var _ saletype.Target = (*SaleOrder)(nil)
