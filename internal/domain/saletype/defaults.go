package saletype

import "saletype/internal/core/id"

// Defaults are the values a type cascades into a document. Nil and empty
// attributes are unset.
type Defaults struct {
	WarehouseID   *id.ID
	PickingPolicy PickingPolicy
	PaymentTermID *id.ID
	PricelistID   *id.ID
	IncotermID    *id.ID
	RouteID       *id.ID
	JournalID     *id.ID
}

// Defaults returns the values the type sets on documents.
func (t *SaleType) Defaults() Defaults {
	return Defaults{
		WarehouseID:   setOrNil(t.WarehouseID),
		PickingPolicy: t.PickingPolicy,
		PaymentTermID: setOrNil(t.PaymentTermID),
		PricelistID:   setOrNil(t.PricelistID),
		IncotermID:    setOrNil(t.IncotermID),
		RouteID:       setOrNil(t.RouteID),
		JournalID:     setOrNil(t.JournalID),
	}
}

// ForOrder keeps what an order header takes: warehouse, picking policy,
// payment term, pricelist and incoterm. The route goes to the lines.
func (d Defaults) ForOrder() Defaults {
	return Defaults{
		WarehouseID:   d.WarehouseID,
		PickingPolicy: d.PickingPolicy,
		PaymentTermID: d.PaymentTermID,
		PricelistID:   d.PricelistID,
		IncotermID:    d.IncotermID,
	}
}

// ForInvoice keeps what an invoice takes: payment term and journal.
func (d Defaults) ForInvoice() Defaults {
	return Defaults{
		PaymentTermID: d.PaymentTermID,
		JournalID:     d.JournalID,
	}
}

// CascadeInto copies the set attributes into dst. Unset attributes leave
// dst untouched. Returns the names of the attributes that were copied.
func (d Defaults) CascadeInto(dst *Defaults) []string {
	var changed []string
	copyID := func(name string, src *id.ID, target **id.ID) {
		if src == nil {
			return
		}
		v := *src
		*target = &v
		changed = append(changed, name)
	}

	copyID("warehouse_id", d.WarehouseID, &dst.WarehouseID)
	if d.PickingPolicy != "" {
		dst.PickingPolicy = d.PickingPolicy
		changed = append(changed, "picking_policy")
	}
	copyID("payment_term_id", d.PaymentTermID, &dst.PaymentTermID)
	copyID("pricelist_id", d.PricelistID, &dst.PricelistID)
	copyID("incoterm_id", d.IncotermID, &dst.IncotermID)
	copyID("route_id", d.RouteID, &dst.RouteID)
	copyID("journal_id", d.JournalID, &dst.JournalID)
	return changed
}

func setOrNil(v *id.ID) *id.ID {
	if v == nil || id.IsNil(*v) {
		return nil
	}
	c := *v
	return &c
}
