package wizard

import (
	"errors"

	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

// ErrorKind is the coarse category of a failed step effect. Nothing downstream
// branches on finer subtypes; the kind only selects user-facing copy, so
// network failures and business-rule rejections share OperationFailed while
// empty lookups get their own kind for dedicated messaging.
type ErrorKind string

const (
	OperationFailed ErrorKind = "operation_failed"
	NotFound        ErrorKind = "not_found"
)

// StepError is the user-displayable record of a failed step effect.
type StepError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *StepError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Classify converts an effect error into its step-local record. Internal
// errors keep a generic message so implementation detail never reaches the
// member-facing surface.
func Classify(err error) *StepError {
	if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
		return &StepError{Kind: NotFound, Message: messageOf(err, "no matching record was found")}
	}
	return &StepError{Kind: OperationFailed, Message: messageOf(err, "the operation could not be completed")}
}

func messageOf(err error, fallback string) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != dErrors.CodeInternal && domainErr.Message != "" {
		return domainErr.Message
	}
	return fallback
}
