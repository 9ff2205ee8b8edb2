package domain

import (
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// CourtTypeSettings configures the booking grid and pricing for one
// court type. Mutated only by administrators; the engine reads it.
type CourtTypeSettings struct {
	CourtType           string
	OperatingDays       []int // time.Weekday values, 0 = Sunday
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	PeakStart           *types.TimeString
	PeakEnd             *types.TimeString
	PeakMultiplier      float64
	WeekendMultiplier   float64
	BasePricePerHour    float64
	SlotDurationMinutes int
	AdvanceBookingDays  int // 0 = unlimited
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsOperatingDay reports whether the court type takes bookings on the
// given weekday.
func (s *CourtTypeSettings) IsOperatingDay(day time.Weekday) bool {
	for _, d := range s.OperatingDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// IsPeakSlot reports whether a slot starting at start falls inside the
// peak window. Half-open: a slot starting exactly at PeakEnd is off-peak.
func (s *CourtTypeSettings) IsPeakSlot(start types.TimeString) bool {
	if s.PeakStart == nil || s.PeakEnd == nil {
		return false
	}
	return !start.IsBefore(*s.PeakStart) && start.IsBefore(*s.PeakEnd)
}

// SlotPrice computes the price of a single slot. Pricing never affects
// the available/unavailable decision.
func (s *CourtTypeSettings) SlotPrice(weekend bool, start types.TimeString) float64 {
	price := s.BasePricePerHour
	if weekend && s.WeekendMultiplier > 0 {
		price *= s.WeekendMultiplier
	}
	if s.IsPeakSlot(start) && s.PeakMultiplier > 0 {
		price *= s.PeakMultiplier
	}
	return price
}

// HasAdvanceBookingLimit reports whether booking dates are capped.
func (s *CourtTypeSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// BookingRules governs admission and cancellation for one court type.
type BookingRules struct {
	CourtType                  string
	MaxActiveBookings          int
	MinCancellationMinutes     int
	MinRescheduleNoticeMinutes int
	AllowCancellation          bool
	AllowRescheduling          bool
	MinBookingNoticeMinutes    int
	MaxDaysAhead               int // 0 = unlimited
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// HasMaxDaysAhead reports whether booking dates are capped by rules.
func (r *BookingRules) HasMaxDaysAhead() bool {
	return r.MaxDaysAhead > 0
}

// DefaultCourtTypeSettings returns the fallback settings used when a
// court type has no settings row yet.
func DefaultCourtTypeSettings(courtType string) *CourtTypeSettings {
	return &CourtTypeSettings{
		CourtType:           courtType,
		OperatingDays:       []int{0, 1, 2, 3, 4, 5, 6},
		OpenTime:            types.TimeString(DefaultOpenTime),
		CloseTime:           types.TimeString(DefaultCloseTime),
		PeakMultiplier:      DefaultPeakMultiplier,
		WeekendMultiplier:   DefaultWeekendMultiplier,
		BasePricePerHour:    DefaultBasePricePerHour,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
	}
}

// DefaultBookingRules returns the fallback rules used when a court type
// has no rules row yet.
func DefaultBookingRules(courtType string) *BookingRules {
	return &BookingRules{
		CourtType:                  courtType,
		MaxActiveBookings:          DefaultMaxActiveBookings,
		MinCancellationMinutes:     DefaultMinCancellationMinutes,
		MinRescheduleNoticeMinutes: DefaultMinRescheduleMinutes,
		AllowCancellation:          true,
		AllowRescheduling:          true,
		MinBookingNoticeMinutes:    DefaultMinBookingNoticeMinutes,
		MaxDaysAhead:               DefaultMaxDaysAhead,
	}
}
