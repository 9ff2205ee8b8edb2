package get_availability

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// BookingRepository is the booking storage surface of the use case.
type BookingRepository interface {
	// ListPaidForCourtsBetween returns paid bookings on the given courts
	// overlapping [start, end).
	ListPaidForCourtsBetween(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.Booking, error)
}

// CourtRepository is the court storage surface of the use case.
type CourtRepository interface {
	ListActiveByType(ctx context.Context, courtType string) ([]*domain.Court, error)
	CountByType(ctx context.Context, courtType string) (int, error)
	ListMaintenanceOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.MaintenancePeriod, error)
	ListSpecialEventsOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.SpecialEvent, error)
}

// SettingsRepository is the configuration storage surface of the use case.
type SettingsRepository interface {
	GetSettings(ctx context.Context, courtType string) (*domain.CourtTypeSettings, error)
}

// Logger defines the logging interface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
