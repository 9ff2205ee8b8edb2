package create_booking

import (
	createHold "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/create_hold"
)

// CreateBookingRequest is the HTTP body of POST /bookings. Date and
// start time are club-local; the authenticated user comes from the
// request context.
type CreateBookingRequest struct {
	CourtID   int64  `json:"court_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
}

// ToUseCaseRequest converts the HTTP body into the use case request.
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createHold.Request {
	return &createHold.Request{
		UserID:    userID,
		CourtID:   r.CourtID,
		Date:      r.Date,
		StartTime: r.StartTime,
	}
}
