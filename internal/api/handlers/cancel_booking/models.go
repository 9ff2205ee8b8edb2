package cancel_booking

// CancelBookingRequest is the HTTP body of PATCH /bookings/{id}/cancel.
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
}
