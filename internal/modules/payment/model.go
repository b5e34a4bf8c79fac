package payment

import (
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

// Method is how a customer pays for an order.
type Method string

const (
	MethodCOD    Method = "COD"
	MethodEsewa  Method = "Esewa"
	MethodKhalti Method = "Khalti"
	MethodStripe Method = "Stripe"
)

// Methods lists the accepted payment methods.
var Methods = []Method{MethodCOD, MethodEsewa, MethodKhalti, MethodStripe}

// Parse resolves a method name case-insensitively; empty means cash on delivery.
func Parse(s string) (Method, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MethodCOD, nil
	}
	for _, m := range Methods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", apperr.Validation("Invalid payment method",
		apperr.FieldError{Field: "paymentMethod", Message: "paymentMethod must be one of: COD Esewa Khalti Stripe"})
}

// SettlesOnDelivery reports whether payment is collected by the courier, in
// which case delivering the order also settles it.
func (m Method) SettlesOnDelivery() bool { return m == MethodCOD }
