package create_hold

import "time"

// Request carries the hold parameters. Date and StartTime are
// club-local; the use case converts them to UTC instants.
type Request struct {
	UserID    int64
	CourtID   int64
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
}

// Response is the created hold.
type Response struct {
	ID        int64      `json:"id"`
	CourtID   int64      `json:"court_id"`
	UserID    int64      `json:"user_id"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	StartUTC  time.Time  `json:"start_utc"`
	EndUTC    time.Time  `json:"end_utc"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`
	Amount    float64    `json:"amount"`
	CreatedAt time.Time  `json:"created_at"`
}

// holdCreatedPayload is the outbox payload for a new hold.
type holdCreatedPayload struct {
	BookingID int64     `json:"booking_id"`
	CourtID   int64     `json:"court_id"`
	UserID    int64     `json:"user_id"`
	StartUTC  time.Time `json:"start_utc"`
	EndUTC    time.Time `json:"end_utc"`
	ExpiresAt time.Time `json:"expires_at"`
	Amount    float64   `json:"amount"`
}
