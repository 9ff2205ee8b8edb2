package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// Result describes whether a court is usable for a slot window.
type Result struct {
	Blocked bool
	Reason  domain.ConflictReason
	// Events carries the titles of special events overlapping the
	// window, whether or not they block.
	Events []string
}

// Detector answers whether a court can host a booking in a window.
// Checks run in precedence order: maintenance, then special events,
// then paid bookings. The first blocking condition wins.
type Detector struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	logger      Logger
}

// NewDetector creates a conflict detector.
func NewDetector(bookingRepo BookingRepository, courtRepo CourtRepository, logger Logger) *Detector {
	return &Detector{
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		logger:      logger,
	}
}

// Detect checks one court for the window [start, end). excludeBookingID
// lets a reschedule ignore the booking being moved.
func (d *Detector) Detect(ctx context.Context, courtID int64, start, end time.Time, excludeBookingID *int64) (*Result, error) {
	courtIDs := []int64{courtID}

	maintenance, err := d.courtRepo.ListMaintenanceOverlapping(ctx, courtIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list maintenance periods: %v", ErrInternal, err)
	}

	events, err := d.courtRepo.ListSpecialEventsOverlapping(ctx, courtIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list special events: %v", ErrInternal, err)
	}

	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}

	if len(maintenance) > 0 {
		return &Result{Blocked: true, Reason: domain.ConflictMaintenance, Events: titles}, nil
	}

	if len(events) > 0 {
		return &Result{Blocked: true, Reason: domain.ConflictSpecialEvent, Events: titles}, nil
	}

	count, err := d.bookingRepo.CountPaidOverlapping(ctx, courtID, start, end, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count paid bookings: %v", ErrInternal, err)
	}
	if count > 0 {
		return &Result{Blocked: true, Reason: domain.ConflictBooked, Events: titles}, nil
	}

	return &Result{Blocked: false, Reason: domain.ConflictNone, Events: titles}, nil
}
