// Package membership implements the multi-step membership application flow:
// account creation, email verification, application details, confirmation.
// The step sequencing and retry semantics live in the wizard engine; this
// package binds the steps to their external effects and owns the per-step
// payload validation.
package membership

import (
	"time"

	"github.com/asaskevich/govalidator"

	"neuroportal/internal/wizard"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
)

const (
	StepAccountCreation    wizard.StepID = "account_creation"
	StepEmailVerification  wizard.StepID = "email_verification"
	StepApplicationDetails wizard.StepID = "application_details"
	StepConfirmation       wizard.StepID = "confirmation"
)

// Steps returns the application wizard's step order.
func Steps() []wizard.StepID {
	return []wizard.StepID{StepAccountCreation, StepEmailVerification, StepApplicationDetails, StepConfirmation}
}

// Category is the membership tier applied for.
type Category string

const (
	CategoryFull      Category = "full"
	CategoryAssociate Category = "associate"
	CategoryStudent   Category = "student"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFull, CategoryAssociate, CategoryStudent:
		return Category(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown membership category")
	}
}

// AccountCreationPayload is the validated form data of the first step.
type AccountCreationPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (p AccountCreationPayload) Validate() error {
	if !govalidator.StringLength(p.Email, "1", "255") || !govalidator.IsEmail(p.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if !govalidator.StringLength(p.Password, "8", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be between 8 and 128 characters")
	}
	if !govalidator.StringLength(p.FullName, "1", "200") {
		return dErrors.New(dErrors.CodeInvalidInput, "full name is required")
	}
	return nil
}

// ApplicationDetailsPayload is the validated form data of the third step.
type ApplicationDetailsPayload struct {
	Specialization string `json:"specialization"`
	Country        string `json:"country"`
	Institution    string `json:"institution"`
	Category       string `json:"category"`
	Motivation     string `json:"motivation"`
}

func (p ApplicationDetailsPayload) Validate() error {
	if !govalidator.StringLength(p.Specialization, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "specialization is required")
	}
	if !govalidator.StringLength(p.Country, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "country is required")
	}
	if !govalidator.StringLength(p.Institution, "1", "200") {
		return dErrors.New(dErrors.CodeInvalidInput, "institution is required")
	}
	if _, err := ParseCategory(p.Category); err != nil {
		return err
	}
	if len(p.Motivation) > 2000 {
		return dErrors.New(dErrors.CodeInvalidInput, "motivation too long")
	}
	return nil
}

// Application is the submitted membership application record.
type Application struct {
	ID             id.ApplicationID `json:"id"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name"`
	Specialization string           `json:"specialization"`
	Country        string           `json:"country"`
	Institution    string           `json:"institution"`
	Category       Category         `json:"category"`
	Motivation     string           `json:"motivation,omitempty"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}
