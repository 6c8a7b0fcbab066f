package domain

import (
	"errors"
	"fmt"
)

// Boundary error taxonomy. Every operation returns one of these (possibly
// wrapped) so the presentation layer can map them without string matching.
var (
	ErrFlightNotFound        = errors.New("flight not found")
	ErrFlightNotBookable     = errors.New("flight is not open for booking")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrInvalidPassengerCount = errors.New("number of passengers must be between 1 and 9")
	ErrBaggageOverweight     = errors.New("baggage item exceeds the maximum weight per item")
	ErrInsufficientSeats     = errors.New("not enough available seats")
	ErrReferenceExhausted    = errors.New("could not generate a unique booking reference")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrInvalidTransition     = errors.New("status transition is not allowed")
	ErrPersistence           = errors.New("storage unavailable")
)

// MissingFieldError names the empty required field that failed validation.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is empty", e.Field)
}
