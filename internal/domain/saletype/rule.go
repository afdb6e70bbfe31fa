package saletype

import (
	"context"
	"sort"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/internal/domain/filter"
)

// Product search fields the rules constrain.
const (
	FieldCategory = "categ_id"
	FieldID       = "id"
)

// Rule selects a sale type for documents whose lines contain one of its
// products or a product of one of its categories.
type Rule struct {
	ID         id.ID  `db:"id" json:"id"`
	SaleTypeID id.ID  `db:"sale_type_id" json:"saleTypeId"`
	Name       string `db:"name" json:"name"`
	Sequence   int    `db:"sequence" json:"sequence"`

	ProductIDs  []id.ID `db:"-" json:"productIds"`
	CategoryIDs []id.ID `db:"-" json:"categoryIds"`
}

// NewRule creates a rule with the default sequence.
func NewRule(name string) *Rule {
	return &Rule{
		ID:       id.New(),
		Name:     name,
		Sequence: DefaultSequence,
	}
}

// Validate implements entity.Validatable interface.
func (r *Rule) Validate(_ context.Context) error {
	if r.Name == "" {
		return apperror.NewValidation("rule name is required").
			WithDetail("field", "name").
			WithDetail("rule", r.ID.String())
	}
	if id.IsNil(r.SaleTypeID) {
		return apperror.NewValidation("rule must belong to a sale type").
			WithDetail("field", "saleTypeId")
	}
	return nil
}

// IsEmpty reports whether the rule has neither products nor categories.
func (r *Rule) IsEmpty() bool {
	return len(r.ProductIDs) == 0 && len(r.CategoryIDs) == 0
}

// constraint returns the product constraint of the rule: the category
// leaf, the product leaf, or both OR-ed with the category first.
func (r *Rule) constraint() (filter.Domain, bool, error) {
	var parts []filter.Domain
	if len(r.CategoryIDs) > 0 {
		parts = append(parts, filter.Domain{filter.NewLeaf(FieldCategory, filter.InList, cloneIDs(r.CategoryIDs))})
	}
	if len(r.ProductIDs) > 0 {
		parts = append(parts, filter.Domain{filter.NewLeaf(FieldID, filter.InList, cloneIDs(r.ProductIDs))})
	}
	switch len(parts) {
	case 0:
		return nil, false, nil
	case 1:
		return parts[0], true, nil
	}
	d, err := filter.Or(parts...)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// AddToDomain restricts a product search domain to the products the rule
// accepts. A rule without products and categories returns base as is.
func (r *Rule) AddToDomain(base filter.Domain) (filter.Domain, error) {
	c, ok, err := r.constraint()
	if err != nil || !ok {
		return base, err
	}
	return filter.And(base, c)
}

// MatchesProducts reports whether any rule product is in products.
func (r *Rule) MatchesProducts(products IDSet) bool {
	return products.ContainsAny(r.ProductIDs)
}

// MatchesCategories reports whether any rule category is in categories.
func (r *Rule) MatchesCategories(categories IDSet) bool {
	return categories.ContainsAny(r.CategoryIDs)
}

// Matches reports whether the rule matches the lines, testing products
// before categories.
func (r *Rule) Matches(lines Lines) bool {
	return r.MatchesProducts(lines.Products) || r.MatchesCategories(lines.Categories)
}

// SortRules orders rules by (sequence, id).
func SortRules(rules []*Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Sequence != rules[j].Sequence {
			return rules[i].Sequence < rules[j].Sequence
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
}

// AddRulesToDomain restricts a product search domain to the products any
// of the type's rules accepts. Without contributing rules base is
// returned as is.
func (t *SaleType) AddRulesToDomain(base filter.Domain) (filter.Domain, error) {
	var constraints []filter.Domain
	for _, r := range t.Rules {
		c, ok, err := r.constraint()
		if err != nil {
			return nil, err
		}
		if ok {
			constraints = append(constraints, c)
		}
	}
	if len(constraints) == 0 {
		return base, nil
	}
	anyRule, err := filter.Or(constraints...)
	if err != nil {
		return nil, err
	}
	return filter.And(base, anyRule)
}

func cloneIDs(ids []id.ID) []id.ID {
	out := make([]id.ID, len(ids))
	copy(out, ids)
	return out
}
