package domain

import (
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// AvailabilityReason explains a day with no bookable slots, so the
// caller can tell "closed today" from "nothing configured" from
// "every court is out of service".
type AvailabilityReason string

const (
	ReasonAvailable            AvailabilityReason = ""
	ReasonNotOperating         AvailabilityReason = "not_operating"
	ReasonNoCourtsConfigured   AvailabilityReason = "no_courts_configured"
	ReasonAllCourtsUnavailable AvailabilityReason = "all_courts_unavailable"
)

// AvailableSlot is one bookable interval with its remaining capacity
// across the courts of a type.
type AvailableSlot struct {
	StartTime       types.TimeString // club-local wall clock
	EndTime         types.TimeString
	StartUTC        time.Time
	EndUTC          time.Time
	AvailableCourts int
	TotalCourts     int
	IsPast          bool
	Price           float64
	SpecialEvents   []string // titles of events overlapping the slot
}

// IsFull returns true if no court is free for the slot.
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableCourts <= 0
}

// IsBookable returns true if at least one court is free and the slot
// has not started yet.
func (s *AvailableSlot) IsBookable() bool {
	return s.AvailableCourts > 0 && !s.IsPast
}

// ConflictReason says why an interval is blocked for a court.
type ConflictReason string

const (
	ConflictNone         ConflictReason = ""
	ConflictMaintenance  ConflictReason = "maintenance"
	ConflictSpecialEvent ConflictReason = "special_event"
	ConflictBooked       ConflictReason = "booked"
)
