package saletype

import "saletype/internal/core/id"

// IDSet is a set of ids.
type IDSet map[id.ID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...id.ID) IDSet {
	s := make(IDSet, len(ids))
	for _, v := range ids {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is in the set.
func (s IDSet) Contains(v id.ID) bool {
	_, ok := s[v]
	return ok
}

// ContainsAny reports whether any of ids is in the set.
func (s IDSet) ContainsAny(ids []id.ID) bool {
	for _, v := range ids {
		if s.Contains(v) {
			return true
		}
	}
	return false
}

// Lines is what the classifier knows about a document: the products of
// its lines and the categories of those products.
type Lines struct {
	Products   IDSet
	Categories IDSet
}

// NewLines builds Lines from line product ids and a product to category
// map. Products missing from the map contribute no category.
func NewLines(productIDs []id.ID, categories map[id.ID]id.ID) Lines {
	l := Lines{
		Products:   NewIDSet(productIDs...),
		Categories: make(IDSet),
	}
	for p := range l.Products {
		if c, ok := categories[p]; ok && !id.IsNil(c) {
			l.Categories[c] = struct{}{}
		}
	}
	return l
}

// IsEmpty reports whether there are no products.
func (l Lines) IsEmpty() bool {
	return len(l.Products) == 0
}
