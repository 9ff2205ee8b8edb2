package domain

import "time"

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	// StatusPendingPayment is a time-boxed hold waiting for a gateway outcome
	StatusPendingPayment BookingStatus = "pending_payment"
	// StatusPaid is a confirmed booking that permanently blocks its slot
	StatusPaid BookingStatus = "paid"
	// StatusCancelled is terminal; the reason field distinguishes user
	// cancellations, expired holds and lost payment races
	StatusCancelled BookingStatus = "cancelled"
)

// Cancellation reasons recorded on cancelled rows
const (
	CancelReasonHoldExpired = "hold_expired"
	CancelReasonSlotLost    = "slot_lost"
)

// Values for the cancelled_by column
const (
	CancelledByUser     = "user"
	CancelledByOperator = "operator"
	CancelledByAdmin    = "admin"
	CancelledBySystem   = "system"
)

// Booking is the central entity: one court, one hour, one member.
// Start/End are UTC instants; the civil-time view lives at the API
// boundary only.
type Booking struct {
	ID        int64
	CourtID   int64
	UserID    int64
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	// ExpiresAt is non-nil iff Status == StatusPendingPayment
	ExpiresAt *time.Time

	PaymentMethod       *string
	PaymentGateway      *string
	PaymentID           *string
	Amount              float64
	ActualAmountCharged *float64
	PaymentCompletedAt  *time.Time

	CancellationReason *string
	CancelledBy        *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true while the booking is an unpaid hold.
func (b *Booking) IsPending() bool {
	return b.Status == StatusPendingPayment
}

// IsPaid returns true once a gateway outcome confirmed the booking.
func (b *Booking) IsPaid() bool {
	return b.Status == StatusPaid
}

// IsCancelled returns true for any terminal cancelled state.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsExpiredHold returns true for a pending hold whose deadline passed.
func (b *Booking) IsExpiredHold(now time.Time) bool {
	return b.IsPending() && b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}

// IsActive returns true for bookings that count against a member's
// active-booking cap: unpaid holds and paid bookings.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPendingPayment || b.Status == StatusPaid
}

// CanBeCancelled returns true when the explicit cancel path applies.
// Pending holds are abandoned and reclaimed by the sweeper, never
// cancelled through this path.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPaid
}

// Overlaps reports strict half-open interval overlap with [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// ExpiredByHold returns true if the row is a cancelled hold reclaimed
// by the sweeper.
func (b *Booking) ExpiredByHold() bool {
	return b.Status == StatusCancelled &&
		b.CancellationReason != nil &&
		*b.CancellationReason == CancelReasonHoldExpired
}

// CourtBookingsFilter selects bookings of one court for reporting.
type CourtBookingsFilter struct {
	CourtID         int64
	StartUTC        *time.Time     // period start (optional)
	EndUTC          *time.Time     // period end, exclusive (optional)
	Status          *BookingStatus // exact status (optional)
	IncludeInactive bool           // include cancelled rows
}
