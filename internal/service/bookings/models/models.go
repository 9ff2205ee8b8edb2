package models

import (
	"errors"
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
)

// ErrInvalidStatus is returned for unknown status filter values.
var ErrInvalidStatus = errors.New("invalid booking status")

// CancelBookingRequest cancels a paid booking.
type CancelBookingRequest struct {
	UserID             int64       `json:"user_id"`
	Role               domain.Role `json:"-"`
	CancellationReason string      `json:"cancellation_reason"`
}

// GetUserBookingsRequest lists a member's booking history.
type GetUserBookingsRequest struct {
	UserID      int64       `json:"user_id"`
	RequesterID int64       `json:"-"`
	Role        domain.Role `json:"-"`
	Status      *string     `json:"status,omitempty"`
}

// GetCourtBookingsRequest lists one court's bookings for reporting.
// Staff only.
type GetCourtBookingsRequest struct {
	CourtID         int64       `json:"court_id"`
	Role            domain.Role `json:"-"`
	StartUTC        *time.Time  `json:"start,omitempty"`
	EndUTC          *time.Time  `json:"end,omitempty"`
	Status          *string     `json:"status,omitempty"`
	IncludeInactive bool        `json:"include_inactive,omitempty"`
}

// ToDomainFilter converts the request into the storage filter.
func (r *GetCourtBookingsRequest) ToDomainFilter() (domain.CourtBookingsFilter, error) {
	filter := domain.CourtBookingsFilter{
		CourtID:         r.CourtID,
		StartUTC:        r.StartUTC,
		EndUTC:          r.EndUTC,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// BookingResponse is the API view of one booking. Civil date and time
// are rendered in the club timezone; the UTC instants ride along.
type BookingResponse struct {
	ID                  int64      `json:"id"`
	CourtID             int64      `json:"court_id"`
	UserID              int64      `json:"user_id"`
	Date                string     `json:"date"`
	StartTime           string     `json:"start_time"`
	EndTime             string     `json:"end_time"`
	StartUTC            time.Time  `json:"start_utc"`
	EndUTC              time.Time  `json:"end_utc"`
	Status              string     `json:"status"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	PaymentGateway      *string    `json:"payment_gateway,omitempty"`
	PaymentMethod       *string    `json:"payment_method,omitempty"`
	Amount              float64    `json:"amount"`
	ActualAmountCharged *float64   `json:"actual_amount_charged,omitempty"`
	PaymentCompletedAt  *time.Time `json:"payment_completed_at,omitempty"`
	CancellationReason  *string    `json:"cancellation_reason,omitempty"`
	CancelledBy         *string    `json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BookingListResponse is a list of bookings.
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking converts a domain booking to the API view.
func FromDomainBooking(b *domain.Booking, norm *clock.Normalizer) *BookingResponse {
	return &BookingResponse{
		ID:                  b.ID,
		CourtID:             b.CourtID,
		UserID:              b.UserID,
		Date:                norm.LocalDate(b.StartTime),
		StartTime:           norm.LocalTime(b.StartTime).String(),
		EndTime:             norm.LocalTime(b.EndTime).String(),
		StartUTC:            b.StartTime,
		EndUTC:              b.EndTime,
		Status:              string(b.Status),
		ExpiresAt:           b.ExpiresAt,
		PaymentGateway:      b.PaymentGateway,
		PaymentMethod:       b.PaymentMethod,
		Amount:              b.Amount,
		ActualAmountCharged: b.ActualAmountCharged,
		PaymentCompletedAt:  b.PaymentCompletedAt,
		CancellationReason:  b.CancellationReason,
		CancelledBy:         b.CancelledBy,
		CancelledAt:         b.CancelledAt,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// FromDomainBookingList converts a list of domain bookings.
func FromDomainBookingList(bookings []*domain.Booking, norm *clock.Normalizer) *BookingListResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, *FromDomainBooking(b, norm))
	}
	return &BookingListResponse{Bookings: out, Total: len(out)}
}

// ToDomainBookingStatus validates and converts a status filter value.
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPendingPayment, domain.StatusPaid, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
