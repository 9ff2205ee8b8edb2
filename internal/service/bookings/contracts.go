package bookings

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// BookingRepository is the booking storage surface of the service.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error)
	// CancelPaid cancels a paid booking. Conditional on the row still
	// being paid.
	CancelPaid(ctx context.Context, id int64, reason, cancelledBy string, at time.Time) error
}

// CourtRepository resolves a booking's court type for rule lookups.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ConfigRepository is the configuration storage surface of the service.
type ConfigRepository interface {
	GetRules(ctx context.Context, courtType string) (*domain.BookingRules, error)
}

// OutboxRepository appends booking events inside the cancel transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.BookingEvent) error
}

// TransactionManager runs the cancel check and update atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger defines the logging interface required by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
