package reschedule_booking

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/conflicts"
)

// BookingRepository is the booking storage surface of the use case.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// Move changes the slot of a paid booking. Conditional on the row
	// still being paid; the paid-slot unique index guards the target.
	Move(ctx context.Context, id int64, newStart, newEnd time.Time) error
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

// OutboxRepository appends booking events inside the move transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.BookingEvent) error
}

// ConflictDetector checks the target slot for blockers.
type ConflictDetector interface {
	Detect(ctx context.Context, courtID int64, start, end time.Time, excludeBookingID *int64) (*conflicts.Result, error)
}

// TransactionManager runs the re-admission check and move atomically.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger defines the logging interface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
