package storefront

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency prefixes amounts on receipts
const DefaultCurrency = "Rs."

// ReceiptFormatter renders amounts and confirmations for a locale
type ReceiptFormatter struct {
	printer    *message.Printer
	currency   string
	decimalSep string
}

// NewReceiptFormatter creates a formatter for lang. An empty currency uses DefaultCurrency.
func NewReceiptFormatter(lang language.Tag, currency string) *ReceiptFormatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	printer := message.NewPrinter(lang)
	return &ReceiptFormatter{
		printer:    printer,
		currency:   currency,
		decimalSep: strings.Trim(printer.Sprint(number.Decimal(1.5)), "15"),
	}
}

// Amount formats d with digit grouping and at most two decimals. Digits come
// from the decimal itself, so large amounts keep their exact value.
func (f *ReceiptFormatter) Amount(d decimal.Decimal) string {
	rounded := d.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	frac = strings.TrimRight(frac, "0")

	out := whole
	if units, err := strconv.ParseInt(whole, 10, 64); err == nil {
		out = f.printer.Sprint(number.Decimal(units))
	}
	if frac != "" {
		out += f.decimalSep + frac
	}
	if rounded.Sign() < 0 {
		out = "-" + out
	}
	return f.currency + " " + out
}

// Receipt renders a checkout confirmation
func (f *ReceiptFormatter) Receipt(c *Confirmation) string {
	var b strings.Builder
	b.WriteString(f.printer.Sprintf("Order placed successfully (%d items)\n", c.ItemCount))
	b.WriteString(f.printer.Sprintf("  Order ID:  %s\n", c.OrderID))
	b.WriteString(f.printer.Sprintf("  User ID:   %s\n", c.UserOrderID))
	b.WriteString(f.printer.Sprintf("  Subtotal:  %s\n", f.Amount(c.Totals.Subtotal)))
	b.WriteString(f.printer.Sprintf("  Shipping:  %s\n", f.Amount(c.Totals.Shipping)))
	b.WriteString(f.printer.Sprintf("  Total:     %s\n", f.Amount(c.Totals.Total)))
	if c.Warning != "" {
		b.WriteString(c.Warning)
		b.WriteString("\n")
	}
	return b.String()
}
