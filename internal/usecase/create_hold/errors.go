package create_hold

import "errors"

var (
	// ErrInvalidInput is returned for malformed request fields.
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrCourtNotFound is returned when the court does not exist.
	ErrCourtNotFound = errors.New("create_hold: court not found")

	// ErrCourtInactive is returned when the court is out of service.
	ErrCourtInactive = errors.New("create_hold: court is out of service")

	// ErrNotOperatingDay is returned when the court type does not take
	// bookings on the requested weekday.
	ErrNotOperatingDay = errors.New("create_hold: court type does not operate on this day")

	// ErrInvalidTimeSlot is returned when the start time does not sit on
	// the booking grid or the slot runs outside operating hours.
	ErrInvalidTimeSlot = errors.New("create_hold: invalid time slot")

	// ErrTooLateToBook is returned when the slot has started or violates
	// the minimum booking notice.
	ErrTooLateToBook = errors.New("create_hold: too late to book this slot")

	// ErrDateTooFarAhead is returned when the date exceeds the advance
	// booking window.
	ErrDateTooFarAhead = errors.New("create_hold: date is too far in the future")

	// ErrTooManyActiveBookings is returned when the member is at their
	// active-booking cap.
	ErrTooManyActiveBookings = errors.New("create_hold: too many active bookings")

	// ErrSlotNotAvailable is returned when the slot is blocked by a paid
	// booking, maintenance or a special event.
	ErrSlotNotAvailable = errors.New("create_hold: slot is not available")

	// ErrInternal is returned on storage failures.
	ErrInternal = errors.New("create_hold: internal error")
)
