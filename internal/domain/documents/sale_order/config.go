package sale_order

import "saletype/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for sale orders.
	// Numbers come from the order type sequence when it has one.
	NumeratorStrategy = numerator.StrategyStrict

	// DefaultPrefix numbers orders whose type has no sequence.
	DefaultPrefix = "SO"
)
