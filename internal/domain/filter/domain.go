package filter

import (
	"fmt"

	"saletype/internal/core/apperror"
)

// Domain is a list of terms in prefix notation, e.g.
//
//	["&", ("sale_ok", "=", true), "|", ("c1", "=", 1), ("c2", "=", 2)]
//
// Consecutive terms without an operator are implicitly AND-ed.
type Domain []Term

// TrueDomain matches every record, FalseDomain none.
var (
	TrueDomain  = Domain{TrueLeaf}
	FalseDomain = Domain{FalseLeaf}
)

// IsTrue reports whether d is exactly the TRUE domain.
func (d Domain) IsTrue() bool {
	if len(d) != 1 {
		return false
	}
	l, ok := d[0].(Leaf)
	return ok && l.IsTrue()
}

// IsFalse reports whether d is exactly the FALSE domain.
func (d Domain) IsFalse() bool {
	if len(d) != 1 {
		return false
	}
	l, ok := d[0].(Leaf)
	return ok && l.IsFalse()
}

// Clone returns a copy of the term list. Leaf values are shared.
func (d Domain) Clone() Domain {
	if d == nil {
		return nil
	}
	out := make(Domain, len(d))
	copy(out, d)
	return out
}

// Normalize makes implicit ANDs explicit. The empty domain normalizes to
// TrueDomain. A malformed domain (dangling or missing operands, unknown
// terms) is rejected.
func Normalize(d Domain) (Domain, error) {
	if len(d) == 0 {
		return TrueDomain.Clone(), nil
	}

	result := make(Domain, 0, len(d)+1)
	expected := 1
	for i, term := range d {
		if expected == 0 {
			result = append(Domain{OpAnd}, result...)
			expected = 1
		}
		switch t := term.(type) {
		case Leaf:
			expected--
		case Operator:
			if t.arity() == 0 {
				return nil, malformed(d, fmt.Sprintf("unknown operator %q at %d", string(t), i))
			}
			expected += t.arity() - 1
		default:
			return nil, malformed(d, fmt.Sprintf("unsupported term %T at %d", term, i))
		}
		result = append(result, term)
	}

	if expected != 0 {
		return nil, malformed(d, "operator is missing operands")
	}
	return result, nil
}

// And combines domains with AND. TRUE and empty domains are skipped, a
// FALSE domain short-circuits. Nothing left yields TrueDomain.
func And(domains ...Domain) (Domain, error) {
	return combine(OpAnd, TrueDomain, FalseDomain, domains)
}

// Or combines domains with OR. FALSE and empty domains are skipped, a
// TRUE domain short-circuits. Nothing left yields FalseDomain.
func Or(domains ...Domain) (Domain, error) {
	return combine(OpOr, FalseDomain, TrueDomain, domains)
}

// Negate prefixes the normalized domain with NOT.
func Negate(d Domain) (Domain, error) {
	n, err := Normalize(d)
	if err != nil {
		return nil, err
	}
	return append(Domain{OpNot}, n...), nil
}

func combine(op Operator, unit, zero Domain, domains []Domain) (Domain, error) {
	isUnit, isZero := Domain.IsTrue, Domain.IsFalse
	if op == OpOr {
		isUnit, isZero = Domain.IsFalse, Domain.IsTrue
	}

	var result Domain
	count := 0
	for _, d := range domains {
		if isUnit(d) {
			continue
		}
		if isZero(d) {
			return zero.Clone(), nil
		}
		if len(d) == 0 {
			continue
		}
		n, err := Normalize(d)
		if err != nil {
			return nil, err
		}
		result = append(result, n...)
		count++
	}

	if count == 0 {
		return unit.Clone(), nil
	}

	out := make(Domain, 0, count-1+len(result))
	for i := 0; i < count-1; i++ {
		out = append(out, op)
	}
	return append(out, result...), nil
}

// Walk visits every leaf of d in order.
func (d Domain) Walk(fn func(Leaf) error) error {
	for _, term := range d {
		if l, ok := term.(Leaf); ok {
			if err := fn(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks the domain is well formed and uses known comparators.
func (d Domain) Validate() error {
	if _, err := Normalize(d); err != nil {
		return err
	}
	return d.Walk(func(l Leaf) error {
		if l.Field == "" {
			return malformed(d, "leaf without field")
		}
		if !l.Operator.Valid() {
			return malformed(d, fmt.Sprintf("unknown comparator %q", string(l.Operator)))
		}
		return nil
	})
}

func malformed(d Domain, reason string) error {
	return apperror.NewValidation("malformed domain").
		WithDetail("reason", reason).
		WithDetail("domain", fmt.Sprintf("%v", []Term(d)))
}
