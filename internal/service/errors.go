package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds the transport layer maps to status codes. Everything a service
// method returns wraps one of these or is an internal failure.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError rejects bad input with a human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError marks a terminal failure of the text-generation call or of
// parsing its top-level response.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("text generation: %v", e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamf(format string, args ...any) error {
	return &UpstreamError{Err: fmt.Errorf(format, args...)}
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// notFound translates a repository miss into ErrNotFound, keeping other
// errors as-is.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
