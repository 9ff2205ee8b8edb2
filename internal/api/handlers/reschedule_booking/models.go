package reschedule_booking

// RescheduleBookingRequest is the HTTP body of
// PATCH /bookings/{id}/reschedule. The target slot is club-local.
type RescheduleBookingRequest struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
}
