package invoice

import "saletype/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for invoices.
	// Invoices are accounting documents, so numbers must not have gaps.
	NumeratorStrategy = numerator.StrategyStrict

	// Prefixes of posted invoice numbers when the journal has no short code.
	InvoicePrefix = "INV"
	RefundPrefix  = "RINV"
)
