package entity

import (
	"saletype/internal/core/id"
)

// SaleTyped is a trait for documents classified by a sale order type.
// Used for composition in Order and Invoice.
type SaleTyped struct {
	// SaleTypeID is nil when no type has been resolved yet
	SaleTypeID *id.ID `db:"sale_type_id" json:"saleTypeId,omitempty"`
}

// GetSaleTypeID returns the assigned type or id.Nil().
func (s *SaleTyped) GetSaleTypeID() id.ID {
	if s.SaleTypeID == nil {
		return id.Nil()
	}
	return *s.SaleTypeID
}

// SetSaleTypeID assigns the type; id.Nil() clears it.
func (s *SaleTyped) SetSaleTypeID(typeID id.ID) {
	if id.IsNil(typeID) {
		s.SaleTypeID = nil
		return
	}
	s.SaleTypeID = &typeID
}

// HasSaleType reports whether a type is assigned.
func (s *SaleTyped) HasSaleType() bool {
	return id.IsSet(s.SaleTypeID)
}

// ISaleTyped is implemented by any document carrying a sale type.
type ISaleTyped interface {
	GetSaleTypeID() id.ID
	SetSaleTypeID(typeID id.ID)
	HasSaleType() bool
}
