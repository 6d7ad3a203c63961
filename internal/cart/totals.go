package cart

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(150)
	FlatShipping          = decimal.NewFromInt(15)
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Shipping is free from FreeShippingThreshold up, FlatShipping below it.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShipping
}

// ComputeTotals derives the order summary. Both the cart and checkout use it; nothing caches the result.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	ship := Shipping(subtotal)
	return Totals{Subtotal: subtotal, Shipping: ship, Total: subtotal.Add(ship)}
}
