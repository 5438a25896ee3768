package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSecret means the webhook secret is not configured. Every webhook
	// is rejected until it is.
	ErrMissingSecret = errors.New("webhook secret not configured")
	// ErrInvalidSignature means the signature header is absent or does not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload means the body is not JSON or lacks required structure.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	ErrMissingFields = errors.New("missing required fields")
	ErrBookingExists = errors.New("booking already exists for this date")
)

// ReconciliationError reports a storage failure for one booking candidate.
type ReconciliationError struct {
	OrderID     string
	BookingDate string
	BookingType string
	Err         error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile booking order=%s date=%s type=%s: %v", e.OrderID, e.BookingDate, e.BookingType, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
