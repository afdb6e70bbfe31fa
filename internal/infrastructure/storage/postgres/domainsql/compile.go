// Package domainsql compiles search domains into squirrel predicates.
package domainsql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"

	"saletype/internal/core/apperror"
	"saletype/internal/domain/filter"
)

// Compiler turns domains over one table into WHERE predicates.
// Only whitelisted fields may appear in leaves.
type Compiler struct {
	table     string
	columns   map[string]string
	hierarchy map[string]string
}

// New creates a compiler whose fields are the given column names.
func New(table string, columns []string) *Compiler {
	c := &Compiler{
		table:     table,
		columns:   make(map[string]string, len(columns)),
		hierarchy: map[string]string{"id": table},
	}
	for _, col := range columns {
		c.columns[col] = col
	}
	return c
}

// WithColumn exposes field under a different SQL expression.
func (c *Compiler) WithColumn(field, column string) *Compiler {
	c.columns[field] = column
	return c
}

// WithHierarchy enables child_of on field, which references the
// parent_id tree stored in table.
func (c *Compiler) WithHierarchy(field, table string) *Compiler {
	c.hierarchy[field] = table
	return c
}

// Compile validates d and returns an equivalent predicate.
// The empty domain compiles to TRUE.
func (c *Compiler) Compile(d filter.Domain) (squirrel.Sqlizer, error) {
	n, err := filter.Normalize(d)
	if err != nil {
		return nil, err
	}
	pred, next, err := c.parse(n, 0)
	if err != nil {
		return nil, err
	}
	if next != len(n) {
		return nil, apperror.NewValidation("malformed domain").WithDetail("reason", "trailing terms")
	}
	return pred, nil
}

func (c *Compiler) parse(d filter.Domain, pos int) (squirrel.Sqlizer, int, error) {
	if pos >= len(d) {
		return nil, pos, apperror.NewValidation("malformed domain").WithDetail("reason", "missing operand")
	}

	switch t := d[pos].(type) {
	case filter.Operator:
		left, next, err := c.parse(d, pos+1)
		if err != nil {
			return nil, next, err
		}
		if t == filter.OpNot {
			return not{left}, next, nil
		}
		right, next, err := c.parse(d, next)
		if err != nil {
			return nil, next, err
		}
		if t == filter.OpOr {
			return squirrel.Or{left, right}, next, nil
		}
		return squirrel.And{left, right}, next, nil

	case filter.Leaf:
		pred, err := c.leaf(t)
		return pred, pos + 1, err
	}

	return nil, pos, apperror.NewValidation("malformed domain").WithDetail("reason", fmt.Sprintf("unsupported term %T", d[pos]))
}

func (c *Compiler) leaf(l filter.Leaf) (squirrel.Sqlizer, error) {
	if l.IsTrue() {
		return squirrel.Expr("1=1"), nil
	}
	if l.IsFalse() {
		return squirrel.Expr("1=0"), nil
	}

	col, ok := c.columns[l.Field]
	if !ok {
		return nil, apperror.NewValidation("invalid filter field").WithDetail("field", l.Field)
	}

	switch l.Operator {
	case filter.Equal:
		return squirrel.Eq{col: l.Value}, nil
	case filter.NotEqual:
		return squirrel.NotEq{col: l.Value}, nil
	case filter.Less:
		return squirrel.Lt{col: l.Value}, nil
	case filter.LessOrEqual:
		return squirrel.LtOrEq{col: l.Value}, nil
	case filter.Greater:
		return squirrel.Gt{col: l.Value}, nil
	case filter.GreaterOrEqual:
		return squirrel.GtOrEq{col: l.Value}, nil
	case filter.InList:
		return squirrel.Eq{col: asList(l.Value)}, nil
	case filter.NotInList:
		return squirrel.NotEq{col: asList(l.Value)}, nil
	case filter.Like:
		return squirrel.Like{col: wildcard(l.Value)}, nil
	case filter.ILike:
		return squirrel.ILike{col: wildcard(l.Value)}, nil
	case filter.NotILike:
		return squirrel.NotILike{col: wildcard(l.Value)}, nil
	case filter.EqualIfSet:
		if isEmpty(l.Value) {
			return squirrel.Expr("1=1"), nil
		}
		return squirrel.Eq{col: l.Value}, nil
	case filter.ChildOf:
		return c.childOf(l.Field, col, l.Value)
	}

	return nil, apperror.NewValidation("unsupported comparator").WithDetail("operator", string(l.Operator))
}

// childOf matches col against the given ids and all their descendants.
func (c *Compiler) childOf(field, col string, value any) (squirrel.Sqlizer, error) {
	tree, ok := c.hierarchy[field]
	if !ok {
		return nil, apperror.NewValidation("child_of is not supported for field").WithDetail("field", field)
	}
	return squirrel.Expr(fmt.Sprintf(
		`%s IN (WITH RECURSIVE hierarchy AS (SELECT id FROM %s WHERE id = ANY(?) UNION ALL SELECT t.id FROM %s t JOIN hierarchy h ON t.parent_id = h.id) SELECT id FROM hierarchy)`,
		col, tree, tree), asList(value)), nil
}

// not negates a nested predicate.
type not struct {
	inner squirrel.Sqlizer
}

func (n not) ToSql() (string, []any, error) {
	sql, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

func asList(v any) any {
	if v == nil {
		return []any{}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return v
	}
	return []any{v}
}

func wildcard(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, "%_") {
		return s
	}
	return "%" + s + "%"
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case bool:
		return !val
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr:
		return rv.IsNil()
	}
	return false
}
