package sweeper

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// BookingRepository is the booking storage surface of the sweeper.
type BookingRepository interface {
	// ListExpired returns pending holds whose deadline is before cutoff.
	ListExpired(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Booking, error)
	// Expire reclaims one hold. Conditional on the row still being an
	// expired pending hold; ErrBookingNotFound means a concurrent
	// payment or a previous sweep got there first.
	Expire(ctx context.Context, id int64, cutoff time.Time) error
}

// OutboxRepository is the event storage surface of the sweeper and relay.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.BookingEvent) error
	ListUnpublished(ctx context.Context, limit uint64) ([]*domain.BookingEvent, error)
	MarkPublished(ctx context.Context, ids []interface{}) error
}

// TransactionManager runs each expiry and each relay batch atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers drained outbox events to the notification fan-out.
// Delivery is at-least-once; consumers deduplicate by event id.
type Notifier interface {
	Notify(ctx context.Context, event *domain.BookingEvent) error
}

// Logger defines the logging interface required by the sweeper.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
