package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/core/apperror"
)

var (
	saleOK = NewLeaf("sale_ok", Equal, true)
	foo    = NewLeaf("foo", Equal, "bar")
	c1     = NewLeaf("c1", Equal, 1)
	c2     = NewLeaf("c2", Equal, 2)
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Domain
		want Domain
	}{
		{"empty is true", Domain{}, Domain{TrueLeaf}},
		{"single leaf", Domain{saleOK}, Domain{saleOK}},
		{"implicit and", Domain{saleOK, foo}, Domain{OpAnd, saleOK, foo}},
		{"three implicit", Domain{saleOK, foo, c1}, Domain{OpAnd, OpAnd, saleOK, foo, c1}},
		{"leaf then or", Domain{foo, OpOr, c1, c2}, Domain{OpAnd, foo, OpOr, c1, c2}},
		{"explicit kept", Domain{OpOr, c1, c2}, Domain{OpOr, c1, c2}},
		{"not", Domain{OpNot, c1, c2}, Domain{OpAnd, OpNot, c1, c2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, d := range []Domain{
		{OpOr, c1},
		{OpAnd},
		{Operator("^"), c1, c2},
	} {
		_, err := Normalize(d)
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestAnd(t *testing.T) {
	idIn := Domain{NewLeaf("id", InList, []int{7})}

	got, err := And(Domain{}, idIn)
	require.NoError(t, err)
	assert.Equal(t, idIn, got, "empty base contributes nothing")

	got, err = And(Domain{foo, OpOr, c1, c2}, idIn)
	require.NoError(t, err)
	assert.Equal(t, Domain{OpAnd, OpAnd, foo, OpOr, c1, c2, NewLeaf("id", InList, []int{7})}, got)

	got, err = And(TrueDomain, Domain{})
	require.NoError(t, err)
	assert.True(t, got.IsTrue())

	got, err = And(idIn, FalseDomain)
	require.NoError(t, err)
	assert.True(t, got.IsFalse())
}

func TestOr(t *testing.T) {
	got, err := Or(Domain{c1}, Domain{c2})
	require.NoError(t, err)
	assert.Equal(t, Domain{OpOr, c1, c2}, got)

	got, err = Or(FalseDomain, Domain{c1})
	require.NoError(t, err)
	assert.Equal(t, Domain{c1}, got)

	got, err = Or(Domain{c1}, TrueDomain)
	require.NoError(t, err)
	assert.True(t, got.IsTrue())

	got, err = Or()
	require.NoError(t, err)
	assert.True(t, got.IsFalse())
}

func TestNegate(t *testing.T) {
	got, err := Negate(Domain{c1, c2})
	require.NoError(t, err)
	assert.Equal(t, Domain{OpNot, OpAnd, c1, c2}, got)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Domain{OpOr, c1, c2}.Validate())
	assert.Error(t, Domain{NewLeaf("", Equal, 1)}.Validate())
	assert.Error(t, Domain{NewLeaf("x", Comparator("~"), 1)}.Validate())
}

func TestDomainJSON(t *testing.T) {
	raw := `["|", ["categ_id", "in", [3, 4]], ["name", "ilike", "desk"]]`

	var d Domain
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	require.Len(t, d, 3)
	assert.Equal(t, OpOr, d[0])
	assert.Equal(t, Leaf{Field: "categ_id", Operator: InList, Value: []any{int64(3), int64(4)}}, d[1])
	assert.Equal(t, Leaf{Field: "name", Operator: ILike, Value: "desk"}, d[2])

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))

	var constant Domain
	require.NoError(t, json.Unmarshal([]byte(`[["1", "=", 1]]`), &constant))
	assert.True(t, constant.IsTrue())
}

func TestDomainJSON_Invalid(t *testing.T) {
	for _, raw := range []string{
		`["^"]`,
		`[["a", "=="]]`,
		`[["a", "~", 1]]`,
		`[[1, "=", 1]]`,
		`{"a": 1}`,
	} {
		var d Domain
		assert.Error(t, json.Unmarshal([]byte(raw), &d), raw)
	}
}
