package booking

import "errors"

var (
	// ErrBookingNotFound is returned when no booking matches, or a
	// conditional transition matched zero rows (status changed first).
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken is returned when the paid-slot unique index rejects
	// a transition: another paid booking already owns the interval.
	ErrSlotTaken = errors.New("booking.repository: slot already taken by a paid booking")

	// ErrDuplicatePaymentID is returned when the payment_id unique
	// constraint rejects an insert or update.
	ErrDuplicatePaymentID = errors.New("booking.repository: payment id already recorded")

	// ErrNoPendingHold is returned when a user has no pending_payment
	// hold to reconcile a gateway callback against.
	ErrNoPendingHold = errors.New("booking.repository: no pending hold for user")

	// ErrBuildQuery is returned when building SQL fails.
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails.
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
