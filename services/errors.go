// Package services holds the booking workflow and its collaborators.
// Sentinel errors and the ValidationError type let handlers translate
// failures into precise HTTP responses instead of a generic 500.
package services

import (
	"errors"
	"fmt"
)

// ErrServiceNotFound is returned when a booking references a catalog
// entry that does not exist or is no longer offered. Handlers should
// translate this into an HTTP 404 response.
var ErrServiceNotFound = errors.New("service not found")

// ErrCustomerNotFound is returned when a supplied customer id does not
// resolve to an existing customer.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrBookingNotFound is returned by lookups and job transitions for an
// unknown booking id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateCustomer is returned by explicit registration when the
// email already belongs to another customer. Handlers should translate
// this into an HTTP 409 response.
var ErrDuplicateCustomer = errors.New("customer with this email already exists")

// ErrInvalidTransition is returned when a job transition is not
// permitted from the booking's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrTokenPending is returned by CreateBooking when the booking row
// committed but the token could not be attached. The booking exists;
// callers must report it as created with the token pending, never as a
// failed request.
var ErrTokenPending = errors.New("booking created, token attach pending")

// ValidationError reports a malformed or missing input field. The
// request is rejected before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
