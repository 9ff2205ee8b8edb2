package get_availability

import (
	"fmt"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/types"
)

// gridSlot is one interval of the day grid before capacity is known.
type gridSlot struct {
	start    types.TimeString
	end      types.TimeString
	startUTC time.Time
	endUTC   time.Time
}

// generateGrid builds the slot grid between open and close. The last
// slot ends exactly at or before closing time; a slot that would cross
// midnight is dropped.
func generateGrid(norm *clock.Normalizer, settings *domain.CourtTypeSettings, date string) ([]gridSlot, error) {
	duration := settings.SlotDurationMinutes
	if duration <= 0 {
		return nil, fmt.Errorf("invalid slot duration: %d", duration)
	}

	grid := make([]gridSlot, 0)
	current := settings.OpenTime

	for {
		end, err := current.AddMinutes(duration)
		if err != nil {
			break
		}
		if settings.CloseTime.IsBefore(end) {
			break
		}

		startUTC, err := norm.SlotStartUTC(date, current)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve slot start: %w", err)
		}

		grid = append(grid, gridSlot{
			start:    current,
			end:      end,
			startUTC: startUTC,
			endUTC:   startUTC.Add(time.Duration(duration) * time.Minute),
		})

		current = end
	}

	return grid, nil
}

// computeSlots fills each grid slot with remaining capacity, price and
// overlapping special events. Pending holds never reduce capacity;
// only paid bookings, maintenance and special events block a court.
func computeSlots(
	norm *clock.Normalizer,
	settings *domain.CourtTypeSettings,
	date string,
	weekend bool,
	grid []gridSlot,
	courts []*domain.Court,
	totalCourts int,
	bookings []*domain.Booking,
	maintenance []*domain.MaintenancePeriod,
	events []*domain.SpecialEvent,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0, len(grid))

	for _, g := range grid {
		var titles []string
		seen := make(map[string]struct{})
		for _, e := range events {
			if e.Overlaps(g.startUTC, g.endUTC) {
				if _, ok := seen[e.Title]; !ok {
					seen[e.Title] = struct{}{}
					titles = append(titles, e.Title)
				}
			}
		}

		available := 0
		for _, c := range courts {
			if courtIsFree(c.ID, g.startUTC, g.endUTC, bookings, maintenance, events) {
				available++
			}
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:       g.start,
			EndTime:         g.end,
			StartUTC:        g.startUTC,
			EndUTC:          g.endUTC,
			AvailableCourts: available,
			TotalCourts:     totalCourts,
			IsPast:          norm.IsPastSlot(date, g.start),
			Price:           settings.SlotPrice(weekend, g.start),
			SpecialEvents:   titles,
		})
	}

	return slots
}

// courtIsFree checks one court against the blockers loaded for the day.
func courtIsFree(
	courtID int64,
	start, end time.Time,
	bookings []*domain.Booking,
	maintenance []*domain.MaintenancePeriod,
	events []*domain.SpecialEvent,
) bool {
	for _, m := range maintenance {
		if m.CourtID == courtID && m.Overlaps(start, end) {
			return false
		}
	}
	for _, e := range events {
		if e.CourtID == courtID && e.Overlaps(start, end) {
			return false
		}
	}
	for _, b := range bookings {
		if b.CourtID == courtID && b.Overlaps(start, end) {
			return false
		}
	}
	return true
}
