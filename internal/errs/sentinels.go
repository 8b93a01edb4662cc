// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist for the
	// calling principal. Cross-tenant hits map here too, on purpose.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is the class all credential rejections belong to.
	// The boundary layer matches on it and never exposes the concrete reason.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Credential rejection reasons. Each wraps ErrUnauthenticated so a single
// errors.Is(err, ErrUnauthenticated) covers the whole class; the concrete
// sentinel is for logs only.
var (
	ErrMissingCredential   = fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	ErrMalformedCredential = fmt.Errorf("%w: malformed credential", ErrUnauthenticated)
	ErrInvalidSignature    = fmt.Errorf("%w: invalid signature", ErrUnauthenticated)
	ErrExpiredCredential   = fmt.Errorf("%w: expired credential", ErrUnauthenticated)
)

// ValidationError reports a rejected input field and the violated constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// NewValidation constructs a ValidationError.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
