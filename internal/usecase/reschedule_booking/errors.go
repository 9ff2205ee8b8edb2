package reschedule_booking

import "errors"

var (
	// ErrInvalidInput is returned for malformed request fields.
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied is returned when the requester neither owns the
	// booking nor holds a staff role.
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrNotReschedulable is returned when the booking is not paid.
	// Pending holds are abandoned and re-created, never moved.
	ErrNotReschedulable = errors.New("reschedule_booking: only paid bookings can be rescheduled")

	// ErrReschedulingDisabled is returned when the court type does not
	// allow rescheduling at all.
	ErrReschedulingDisabled = errors.New("reschedule_booking: rescheduling is disabled for this court type")

	// ErrTooLateToReschedule is returned when the original slot is
	// inside the minimum notice window. Staff roles override it.
	ErrTooLateToReschedule = errors.New("reschedule_booking: too late to reschedule this booking")

	// ErrNotOperatingDay is returned when the target date is not an
	// operating day for the court type.
	ErrNotOperatingDay = errors.New("reschedule_booking: court type does not operate on this day")

	// ErrInvalidTimeSlot is returned when the target slot does not sit
	// on the booking grid or runs outside operating hours.
	ErrInvalidTimeSlot = errors.New("reschedule_booking: invalid time slot")

	// ErrTargetInPast is returned when the target slot has started.
	ErrTargetInPast = errors.New("reschedule_booking: target slot is in the past")

	// ErrDateTooFarAhead is returned when the target date exceeds the
	// advance booking window.
	ErrDateTooFarAhead = errors.New("reschedule_booking: target date is too far in the future")

	// ErrSlotNotAvailable is returned when the target slot is blocked.
	ErrSlotNotAvailable = errors.New("reschedule_booking: target slot is not available")

	// ErrInternal is returned on storage failures.
	ErrInternal = errors.New("reschedule_booking: internal error")
)
