package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Booking event types written to the outbox. Downstream notification
// consumers receive them at-least-once and must be idempotent.
const (
	EventHoldCreated = "booking.hold_created"
	EventPaid        = "booking.paid"
	EventCancelled   = "booking.cancelled"
	EventExpired     = "booking.expired"
	EventRescheduled = "booking.rescheduled"
	EventSlotLost    = "booking.slot_lost"
)

// BookingEvent is one row of the transactional outbox. It is written
// in the same transaction as the state transition it describes.
type BookingEvent struct {
	ID        uuid.UUID
	BookingID int64
	EventType string
	Payload   json.RawMessage
	Published bool
	CreatedAt time.Time
}

// NewBookingEvent builds an unpublished event with a fresh id.
func NewBookingEvent(bookingID int64, eventType string, payload interface{}) (*BookingEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &BookingEvent{
		ID:        uuid.New(),
		BookingID: bookingID,
		EventType: eventType,
		Payload:   raw,
	}, nil
}
