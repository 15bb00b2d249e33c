package trade

import "github.com/shopspring/decimal"

// StandardShipping is the flat shipping fee added to every order
var StandardShipping = decimal.NewFromInt(250)

// EffectivePrice returns the price a line is charged at.
// A discount price, when present, always takes precedence over the list price.
func EffectivePrice(price decimal.Decimal, discountPrice *decimal.Decimal) decimal.Decimal {
	if discountPrice != nil {
		return *discountPrice
	}
	return price
}

// Totals holds the monetary summary of an order or cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals calculates subtotal, shipping and total for the given lines
func ComputeTotals(lines []OrderLine, shipping decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount())
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// Equal reports whether two totals carry the same amounts
func (t Totals) Equal(other Totals) bool {
	return t.Subtotal.Equal(other.Subtotal) &&
		t.Shipping.Equal(other.Shipping) &&
		t.Total.Equal(other.Total)
}
