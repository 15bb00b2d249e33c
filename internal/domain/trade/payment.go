package trade

// PaymentMethod identifies how an order is paid for
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

// DefaultPaymentMethod is used when an order does not name one
const DefaultPaymentMethod = PaymentMethodCOD

// IsKnown reports whether the payment method is recognised at all
func (p PaymentMethod) IsKnown() bool {
	return p == PaymentMethodCOD || p == PaymentMethodCard
}

// IsAvailable reports whether orders can currently be placed with this method.
// Card payments are listed in the checkout UI but not accepted yet.
func (p PaymentMethod) IsAvailable() bool {
	return p == PaymentMethodCOD
}
