package domain

import dErrors "neuroportal/pkg/domain-errors"

// PaymentMethod is a domain value identifying how dues are settled.
// Invariant: the value must be one of the supported methods.
//
// Usage: construct via ParsePaymentMethod at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodCard         PaymentMethod = "card"
)

// validPaymentMethods is the single source of truth for valid methods.
var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodBankTransfer: true,
	PaymentMethodMobileMoney:  true,
	PaymentMethodCard:         true,
}

// ParsePaymentMethod constructs a PaymentMethod from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "payment method cannot be empty")
	}
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported payment method: "+s)
	}
	return m, nil
}

// IsValid reports whether the method is on the allowlist.
func (m PaymentMethod) IsValid() bool {
	return validPaymentMethods[m]
}

func (m PaymentMethod) String() string {
	return string(m)
}
