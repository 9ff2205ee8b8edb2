package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("bookings service: booking not found")

	// ErrAccessDenied is returned when the requester neither owns the
	// booking nor holds a staff role.
	ErrAccessDenied = errors.New("bookings service: access denied")

	// ErrCannotCancel is returned when the booking is not paid. Pending
	// holds are abandoned and reclaimed by the sweeper instead.
	ErrCannotCancel = errors.New("bookings service: booking cannot be cancelled")

	// ErrCancellationDisabled is returned when the court type does not
	// allow cancellation at all.
	ErrCancellationDisabled = errors.New("bookings service: cancellation is disabled for this court type")

	// ErrTooLateToCancel is returned when the slot is inside the
	// minimum cancellation window. Staff roles override it.
	ErrTooLateToCancel = errors.New("bookings service: too late to cancel this booking")

	// ErrInvalidInput is returned for malformed request fields.
	ErrInvalidInput = errors.New("bookings service: invalid input data")

	// ErrInternal is returned on storage failures.
	ErrInternal = errors.New("bookings service: internal error")
)
