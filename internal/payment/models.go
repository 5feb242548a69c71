// Package payment implements the dues payment flow: resolve a member record,
// collect method-specific payment details, confirm with the payment provider.
// Step sequencing and retry semantics come from the wizard engine; the method
// discriminator branches inside one step and never changes the step graph.
package payment

import (
	"time"

	"github.com/asaskevich/govalidator"

	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
)

const (
	StepMemberLookup    wizard.StepID = "member_lookup"
	StepMethodSelection wizard.StepID = "payment_method_selection"
	StepSuccess         wizard.StepID = "success"
)

// Steps returns the payment wizard's step order.
func Steps() []wizard.StepID {
	return []wizard.StepID{StepMemberLookup, StepMethodSelection, StepSuccess}
}

// Member is the resolved payer record.
type Member struct {
	ID               id.MemberID `json:"id"`
	MembershipNumber string      `json:"membership_number"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	DuesAmount       int64       `json:"dues_amount"`
	Currency         string      `json:"currency"`
}

// Status is the lifecycle state of one payment attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payment is one recorded dues payment attempt.
type Payment struct {
	ID        id.PaymentID     `json:"id"`
	MemberID  id.MemberID      `json:"member_id"`
	Amount    int64            `json:"amount"`
	Currency  string           `json:"currency"`
	Method    id.PaymentMethod `json:"method"`
	Status    Status           `json:"status"`
	Reference string           `json:"reference"`
	CreatedAt time.Time        `json:"created_at"`
}

// LookupPayload is the member search form.
type LookupPayload struct {
	Query string `json:"query"`
}

func (p LookupPayload) Validate() error {
	if !govalidator.StringLength(p.Query, "2", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "enter a membership number, name, or email")
	}
	return nil
}

// PayPayload carries the method discriminator plus the branch-specific fields.
// Exactly the fields of the selected branch are required; the others must be
// empty so a client bug mixing branches is caught loudly.
type PayPayload struct {
	Method string `json:"method"`

	// bank_transfer
	BankReference string `json:"bank_reference,omitempty"`

	// mobile_money
	PhoneNumber string `json:"phone_number,omitempty"`

	// card
	CardToken string `json:"card_token,omitempty"`
}

func (p PayPayload) Validate() error {
	method, err := id.ParsePaymentMethod(p.Method)
	if err != nil {
		return err
	}
	switch method {
	case id.PaymentMethodBankTransfer:
		if !govalidator.StringLength(p.BankReference, "4", "64") {
			return dErrors.New(dErrors.CodeInvalidInput, "bank reference is required")
		}
		if p.PhoneNumber != "" || p.CardToken != "" {
			return dErrors.New(dErrors.CodeInvalidInput, "unexpected fields for bank transfer")
		}
	case id.PaymentMethodMobileMoney:
		if !govalidator.StringLength(p.PhoneNumber, "7", "20") || !govalidator.IsNumeric(trimPlus(p.PhoneNumber)) {
			return dErrors.New(dErrors.CodeInvalidInput, "a valid mobile money number is required")
		}
		if p.BankReference != "" || p.CardToken != "" {
			return dErrors.New(dErrors.CodeInvalidInput, "unexpected fields for mobile money")
		}
	case id.PaymentMethodCard:
		if !govalidator.StringLength(p.CardToken, "8", "512") {
			return dErrors.New(dErrors.CodeInvalidInput, "card token is required")
		}
		if p.BankReference != "" || p.PhoneNumber != "" {
			return dErrors.New(dErrors.CodeInvalidInput, "unexpected fields for card payment")
		}
	}
	return nil
}

// Reference returns the branch field that identifies the payment instrument.
func (p PayPayload) Reference() string {
	switch id.PaymentMethod(p.Method) {
	case id.PaymentMethodBankTransfer:
		return p.BankReference
	case id.PaymentMethodMobileMoney:
		return p.PhoneNumber
	default:
		return p.CardToken
	}
}

func trimPlus(s string) string {
	if len(s) > 0 && s[0] == '+' {
		return s[1:]
	}
	return s
}
