package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// validateRequest checks the request fields before any storage access.
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	if err := types.TimeString(req.StartTime).Validate(); err != nil {
		return fmt.Errorf("%w: start time must be in HH:MM format", ErrInvalidInput)
	}
	return nil
}

// validateSlotAlignment checks that the target slot sits on the
// booking grid and stays inside operating hours.
func validateSlotAlignment(settings *domain.CourtTypeSettings, start types.TimeString) error {
	startMinutes, err := start.TotalMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	openMinutes, err := settings.OpenTime.TotalMinutes()
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}

	if startMinutes < openMinutes {
		return ErrInvalidTimeSlot
	}
	if (startMinutes-openMinutes)%settings.SlotDurationMinutes != 0 {
		return ErrInvalidTimeSlot
	}

	end, err := start.AddMinutes(settings.SlotDurationMinutes)
	if err != nil {
		return ErrInvalidTimeSlot
	}
	if settings.CloseTime.IsBefore(end) {
		return ErrInvalidTimeSlot
	}

	return nil
}

// validateAdvanceWindow checks the target date against the advance
// booking caps. The tighter of the two caps wins; zero means unlimited.
func validateAdvanceWindow(slotStart, now time.Time, settings *domain.CourtTypeSettings, rules *domain.BookingRules) error {
	maxDays := 0
	if settings.HasAdvanceBookingLimit() {
		maxDays = settings.AdvanceBookingDays
	}
	if rules.HasMaxDaysAhead() && (maxDays == 0 || rules.MaxDaysAhead < maxDays) {
		maxDays = rules.MaxDaysAhead
	}
	if maxDays == 0 {
		return nil
	}

	if slotStart.After(now.AddDate(0, 0, maxDays)) {
		return ErrDateTooFarAhead
	}
	return nil
}
