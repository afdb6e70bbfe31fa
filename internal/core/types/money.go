// Package types holds value types shared by documents.
package types

import "github.com/shopspring/decimal"

// Money is an exact amount. Floats never enter amounts.
type Money = decimal.Decimal

// MoneyScale is the number of decimals kept on line subtotals and totals.
const MoneyScale int32 = 2

// Zero returns a zero amount.
func Zero() Money {
	return decimal.Zero
}

// ParseMoney parses a decimal string such as "1250.50".
func ParseMoney(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// Subtotal is price times quantity rounded half away from zero to MoneyScale.
func Subtotal(price Money, quantity decimal.Decimal) Money {
	return price.Mul(quantity).Round(MoneyScale)
}

// Sum adds amounts.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
