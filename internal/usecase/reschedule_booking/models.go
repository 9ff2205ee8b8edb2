package reschedule_booking

import (
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// Request moves a paid booking to a new club-local date and time on
// the same court.
type Request struct {
	BookingID int64
	UserID    int64
	Role      domain.Role
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
}

// Response is the moved booking.
type Response struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"court_id"`
	UserID    int64     `json:"user_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	StartUTC  time.Time `json:"start_utc"`
	EndUTC    time.Time `json:"end_utc"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
}

// rescheduledPayload is the outbox payload for a moved booking.
type rescheduledPayload struct {
	BookingID int64     `json:"booking_id"`
	CourtID   int64     `json:"court_id"`
	UserID    int64     `json:"user_id"`
	OldStart  time.Time `json:"old_start_utc"`
	NewStart  time.Time `json:"new_start_utc"`
	NewEnd    time.Time `json:"new_end_utc"`
}
