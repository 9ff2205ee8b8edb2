package conflicts

import (
	"context"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// BookingRepository is the booking storage surface the detector needs.
type BookingRepository interface {
	// CountPaidOverlapping counts paid bookings on the court overlapping
	// [start, end), excluding excludeID when it is not nil.
	CountPaidOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID *int64) (int, error)
}

// CourtRepository is the court storage surface the detector needs.
type CourtRepository interface {
	ListMaintenanceOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.MaintenancePeriod, error)
	ListSpecialEventsOverlapping(ctx context.Context, courtIDs []int64, start, end time.Time) ([]*domain.SpecialEvent, error)
}

// Logger defines the logging interface required by the detector.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
