package saletype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/id"
	"saletype/internal/domain/filter"
)

var (
	emptyDomain   = filter.Domain{}
	saleDomain    = filter.Domain{filter.NewLeaf("sale_ok", filter.Equal, true)}
	complexDomain = filter.Domain{
		filter.NewLeaf("foo", filter.Equal, "bar"),
		filter.OpOr, filter.NewLeaf("c1", filter.Equal, 1), filter.NewLeaf("c2", filter.Equal, 2),
	}
)

func newTypeWithRule(products, categories []id.ID) *SaleType {
	t := NewSaleType("T", "Type")
	r := NewRule("rule")
	r.ProductIDs = products
	r.CategoryIDs = categories
	t.AddRule(r)
	return t
}

func TestRule_AddToDomain(t *testing.T) {
	product := id.New()
	category := id.New()
	productLeaf := filter.NewLeaf(FieldID, filter.InList, []id.ID{product})
	categoryLeaf := filter.NewLeaf(FieldCategory, filter.InList, []id.ID{category})

	tests := []struct {
		name       string
		products   []id.ID
		categories []id.ID
		base       filter.Domain
		want       filter.Domain
	}{
		{"no constraint empty", nil, nil, emptyDomain, emptyDomain},
		{"no constraint sale", nil, nil, saleDomain, saleDomain},
		{"no constraint complex", nil, nil, complexDomain, complexDomain},

		{"products empty", []id.ID{product}, nil, emptyDomain, filter.Domain{productLeaf}},
		{"products sale", []id.ID{product}, nil, saleDomain, filter.Domain{
			filter.OpAnd, saleDomain[0], productLeaf,
		}},
		{"products complex", []id.ID{product}, nil, complexDomain, filter.Domain{
			filter.OpAnd, filter.OpAnd,
			complexDomain[0], filter.OpOr, complexDomain[2], complexDomain[3],
			productLeaf,
		}},

		{"categories empty", nil, []id.ID{category}, emptyDomain, filter.Domain{categoryLeaf}},
		{"categories sale", nil, []id.ID{category}, saleDomain, filter.Domain{
			filter.OpAnd, saleDomain[0], categoryLeaf,
		}},
		{"categories complex", nil, []id.ID{category}, complexDomain, filter.Domain{
			filter.OpAnd, filter.OpAnd,
			complexDomain[0], filter.OpOr, complexDomain[2], complexDomain[3],
			categoryLeaf,
		}},

		{"both empty", []id.ID{product}, []id.ID{category}, emptyDomain, filter.Domain{
			filter.OpOr, categoryLeaf, productLeaf,
		}},
		{"both sale", []id.ID{product}, []id.ID{category}, saleDomain, filter.Domain{
			filter.OpAnd, saleDomain[0], filter.OpOr, categoryLeaf, productLeaf,
		}},
		{"both complex", []id.ID{product}, []id.ID{category}, complexDomain, filter.Domain{
			filter.OpAnd, filter.OpAnd,
			complexDomain[0], filter.OpOr, complexDomain[2], complexDomain[3],
			filter.OpOr, categoryLeaf, productLeaf,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTypeWithRule(tt.products, tt.categories)

			got, err := st.Rules[0].AddToDomain(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// A single rule type restricts exactly like its rule.
			viaType, err := st.AddRulesToDomain(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, viaType)
		})
	}
}

func TestRule_AddToDomain_DoesNotMutateBase(t *testing.T) {
	base := complexDomain.Clone()
	st := newTypeWithRule([]id.ID{id.New()}, nil)

	_, err := st.Rules[0].AddToDomain(base)
	require.NoError(t, err)
	assert.Equal(t, complexDomain, base)
}

func TestRule_AddToDomain_NestedBase(t *testing.T) {
	product := id.New()
	nested := filter.Domain{
		filter.OpNot, filter.OpOr,
		filter.NewLeaf("a", filter.Equal, 1),
		filter.OpAnd, filter.NewLeaf("b", filter.Equal, 2), filter.NewLeaf("c", filter.Equal, 3),
	}
	st := newTypeWithRule([]id.ID{product}, nil)

	got, err := st.Rules[0].AddToDomain(nested)
	require.NoError(t, err)

	want := append(filter.Domain{filter.OpAnd}, nested...)
	want = append(want, filter.NewLeaf(FieldID, filter.InList, []id.ID{product}))
	assert.Equal(t, want, got)
}

func TestRule_AddToDomain_MalformedBase(t *testing.T) {
	st := newTypeWithRule([]id.ID{id.New()}, nil)
	_, err := st.Rules[0].AddToDomain(filter.Domain{filter.OpAnd, filter.NewLeaf("a", filter.Equal, 1)})
	assert.Error(t, err)
}

func TestSaleType_AddRulesToDomain_ORsRules(t *testing.T) {
	p1, p2, c1 := id.New(), id.New(), id.New()
	st := NewSaleType("T", "Type")

	r1 := NewRule("products")
	r1.Sequence = 1
	r1.ProductIDs = []id.ID{p1}
	r2 := NewRule("mixed")
	r2.Sequence = 2
	r2.ProductIDs = []id.ID{p2}
	r2.CategoryIDs = []id.ID{c1}
	empty := NewRule("empty")
	empty.Sequence = 3

	st.AddRule(r2)
	st.AddRule(empty)
	st.AddRule(r1)

	got, err := st.AddRulesToDomain(saleDomain)
	require.NoError(t, err)

	assert.Equal(t, filter.Domain{
		filter.OpAnd,
		saleDomain[0],
		filter.OpOr,
		filter.NewLeaf(FieldID, filter.InList, []id.ID{p1}),
		filter.OpOr,
		filter.NewLeaf(FieldCategory, filter.InList, []id.ID{c1}),
		filter.NewLeaf(FieldID, filter.InList, []id.ID{p2}),
	}, got)
}

func TestRule_Matches(t *testing.T) {
	p1, p2 := id.New(), id.New()
	c1, c2 := id.New(), id.New()
	lines := NewLines([]id.ID{p1}, map[id.ID]id.ID{p1: c1, p2: c2})

	tests := []struct {
		name       string
		products   []id.ID
		categories []id.ID
		want       bool
	}{
		{"product hit", []id.ID{p1}, nil, true},
		{"product miss", []id.ID{p2}, nil, false},
		{"category hit", nil, []id.ID{c1}, true},
		{"category of another line product", nil, []id.ID{c2}, false},
		{"empty rule", nil, nil, false},
		{"category hit product miss", []id.ID{p2}, []id.ID{c1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rule{ProductIDs: tt.products, CategoryIDs: tt.categories}
			assert.Equal(t, tt.want, r.Matches(lines))
		})
	}
}

func TestRule_Validate(t *testing.T) {
	r := NewRule("")
	r.SaleTypeID = id.New()
	assert.Error(t, r.Validate(context.Background()))

	r.Name = "ok"
	assert.NoError(t, r.Validate(context.Background()))

	r.SaleTypeID = id.Nil()
	assert.Error(t, r.Validate(context.Background()))
}

func TestSortRules(t *testing.T) {
	a := &Rule{ID: id.New(), Sequence: 20}
	b := &Rule{ID: id.New(), Sequence: 10}
	c := &Rule{ID: id.New(), Sequence: 10}
	rules := []*Rule{a, c, b}

	SortRules(rules)

	// UUIDv7 ids sort by creation time
	assert.Equal(t, []*Rule{b, c, a}, rules)
}
