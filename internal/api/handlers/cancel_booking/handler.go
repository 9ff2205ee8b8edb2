package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/middleware"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings/models"
)

const (
	msgInvalidBookingID     = "ID de reservación inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgMissingUserID        = "falta el ID del usuario"
	msgNotFound             = "reservación no encontrada"
	msgForbidden            = "acceso denegado"
	msgCannotCancel         = "esta reservación no se puede cancelar"
	msgCancellationDisabled = "este tipo de cancha no permite cancelaciones"
	msgTooLateToCancel      = "es demasiado tarde para cancelar esta reservación"
	msgInvalidInput         = "datos de la solicitud inválidos"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())
	if role == "" {
		role = domain.RoleMember
	}

	// The body is optional: cancelling without a reason is fine.
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, &models.CancelBookingRequest{
		UserID:             userID,
		Role:               role,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrCancellationDisabled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cancellation disabled: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgCancellationDisabled)

		case errors.Is(err, bookings.ErrTooLateToCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Too late to cancel: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTooLateToCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
