package create_hold

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/conflicts"
)

// BookingRepository is the booking storage surface of the use case.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// CountActiveByUser counts the member's pending holds plus paid
	// bookings that have not finished yet.
	CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error)
}

// CourtRepository is the court storage surface of the use case.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ConfigRepository is the configuration storage surface of the use case.
type ConfigRepository interface {
	GetSettings(ctx context.Context, courtType string) (*domain.CourtTypeSettings, error)
	GetRules(ctx context.Context, courtType string) (*domain.BookingRules, error)
}

// OutboxRepository appends booking events inside the hold transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.BookingEvent) error
}

// ConflictDetector checks a court for blockers in a slot window.
type ConflictDetector interface {
	Detect(ctx context.Context, courtID int64, start, end time.Time, excludeBookingID *int64) (*conflicts.Result, error)
}

// TransactionManager runs the admission check and insert atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger defines the logging interface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
