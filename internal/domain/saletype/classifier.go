package saletype

import (
	"fmt"

	"saletype/internal/core/id"
)

// MatchPolicy decides between types when the lines match rules of more
// than one type.
type MatchPolicy string

const (
	// ProductFirst prefers any product match over every category match.
	// Within each tier the first type wins.
	ProductFirst MatchPolicy = "product_first"

	// TypeOrder picks the first type with a matching rule, testing each
	// rule's products before its categories.
	TypeOrder MatchPolicy = "type_order"
)

// ParseMatchPolicy parses a policy name. Empty means ProductFirst.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(s) {
	case "", ProductFirst:
		return ProductFirst, nil
	case TypeOrder:
		return TypeOrder, nil
	}
	return "", fmt.Errorf("unknown match policy %q", s)
}

// Target is a document whose sale type can be classified. AttachSaleType
// sets the type and cascades its defaults the way a manual type change
// does.
type Target interface {
	GetSaleTypeID() id.ID
	AttachSaleType(t *SaleType) error
}

// Classifier selects a sale type from the products of a document.
type Classifier struct {
	Policy MatchPolicy
}

// NewClassifier creates a classifier with the given policy.
func NewClassifier(policy MatchPolicy) Classifier {
	if policy == "" {
		policy = ProductFirst
	}
	return Classifier{Policy: policy}
}

// Match returns the type the lines belong to, or nil. Types are evaluated
// in the given order, rules in (sequence, id) order.
func (c Classifier) Match(types []*SaleType, lines Lines) *SaleType {
	if lines.IsEmpty() {
		return nil
	}
	if c.Policy == TypeOrder {
		for _, t := range types {
			for _, r := range orderedRules(t) {
				if r.Matches(lines) {
					return t
				}
			}
		}
		return nil
	}

	for _, t := range types {
		for _, r := range orderedRules(t) {
			if r.MatchesProducts(lines.Products) {
				return t
			}
		}
	}
	for _, t := range types {
		for _, r := range orderedRules(t) {
			if r.MatchesCategories(lines.Categories) {
				return t
			}
		}
	}
	return nil
}

// Classify attaches the matching type to target through
// Target.AttachSaleType, so its defaults cascade. Without a match, or when
// the match is already the current type, target is left untouched.
// Reports the type that matched and whether the type changed.
func (c Classifier) Classify(target Target, types []*SaleType, lines Lines) (*SaleType, bool, error) {
	t := c.Match(types, lines)
	if t == nil {
		return nil, false, nil
	}
	if target.GetSaleTypeID() == t.ID {
		return t, false, nil
	}
	if err := target.AttachSaleType(t); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// orderedRules returns the rules sorted without touching the type.
func orderedRules(t *SaleType) []*Rule {
	rules := make([]*Rule, len(t.Rules))
	copy(rules, t.Rules)
	SortRules(rules)
	return rules
}
