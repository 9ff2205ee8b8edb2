package domain

import "time"

// Court is a bookable playing court. Owned by configuration; the
// engine only reads it.
type Court struct {
	ID        int64
	Name      string
	CourtType string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaintenancePeriod marks a court unavailable between two UTC instants.
type MaintenancePeriod struct {
	ID        int64
	CourtID   int64
	StartTime time.Time
	EndTime   time.Time
	Active    bool
	Reason    string
	CreatedAt time.Time
}

// Overlaps reports strict half-open interval overlap with [start, end).
func (m *MaintenancePeriod) Overlaps(start, end time.Time) bool {
	return m.StartTime.Before(end) && m.EndTime.After(start)
}

// SpecialEvent blocks a court like maintenance does, but is shown to
// members as information rather than a fault.
type SpecialEvent struct {
	ID        int64
	CourtID   int64
	StartTime time.Time
	EndTime   time.Time
	Title     string
	EventType string
	CreatedAt time.Time
}

// Overlaps reports strict half-open interval overlap with [start, end).
func (e *SpecialEvent) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && e.EndTime.After(start)
}
