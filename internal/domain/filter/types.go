// Package filter provides search domains: prefix-notation boolean filters
// over records, combinable with AND/OR and compiled to SQL by storage.
package filter

// Comparator defines the leaf comparison.
type Comparator string

const (
	Equal          Comparator = "="
	NotEqual       Comparator = "!="
	Less           Comparator = "<"
	LessOrEqual    Comparator = "<="
	Greater        Comparator = ">"
	GreaterOrEqual Comparator = ">="
	InList         Comparator = "in"
	NotInList      Comparator = "not in"
	Like           Comparator = "like"
	ILike          Comparator = "ilike"
	NotILike       Comparator = "not ilike"

	// ChildOf matches the record and all of its descendants (hierarchical catalogs)
	ChildOf Comparator = "child_of"

	// EqualIfSet is true when the value is empty, otherwise behaves like "="
	EqualIfSet Comparator = "=?"
)

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	switch c {
	case Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual,
		InList, NotInList, Like, ILike, NotILike, ChildOf, EqualIfSet:
		return true
	}
	return false
}

// Operator is a prefix logical operator.
type Operator string

const (
	OpAnd Operator = "&"
	OpOr  Operator = "|"
	OpNot Operator = "!"
)

// arity returns the number of operands the operator consumes.
func (o Operator) arity() int {
	switch o {
	case OpNot:
		return 1
	case OpAnd, OpOr:
		return 2
	}
	return 0
}

// Term is either an Operator or a Leaf.
type Term interface {
	isTerm()
}

// Leaf is one (field, comparator, value) criterion.
type Leaf struct {
	Field    string
	Operator Comparator
	Value    any
}

func (Operator) isTerm() {}
func (Leaf) isTerm()     {}

// Constant leaves. Field "1"/"0" compare literal values, not columns.
var (
	TrueLeaf  = Leaf{Field: "1", Operator: Equal, Value: 1}
	FalseLeaf = Leaf{Field: "0", Operator: Equal, Value: 1}
)

// IsTrue reports whether the leaf is the constant true leaf.
func (l Leaf) IsTrue() bool { return l.isConstant("1") }

// IsFalse reports whether the leaf is the constant false leaf.
func (l Leaf) IsFalse() bool { return l.isConstant("0") }

func (l Leaf) isConstant(field string) bool {
	if l.Field != field || l.Operator != Equal {
		return false
	}
	switch v := l.Value.(type) {
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	}
	return false
}

// NewLeaf builds a leaf term.
func NewLeaf(field string, op Comparator, value any) Leaf {
	return Leaf{Field: field, Operator: op, Value: value}
}
