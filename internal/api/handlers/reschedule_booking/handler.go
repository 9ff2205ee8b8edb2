package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/middleware"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	rescheduleBooking "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID     = "ID de reservación inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgMissingUserID        = "falta el ID del usuario"
	msgInvalidInput         = "datos de la solicitud inválidos"
	msgNotFound             = "reservación no encontrada"
	msgForbidden            = "acceso denegado"
	msgNotReschedulable     = "solo las reservaciones pagadas se pueden reprogramar"
	msgReschedulingDisabled = "este tipo de cancha no permite reprogramaciones"
	msgTooLateToReschedule  = "es demasiado tarde para reprogramar esta reservación"
	msgNotOperatingDay      = "la cancha no opera en la fecha seleccionada"
	msgInvalidTimeSlot      = "horario inválido para este tipo de cancha"
	msgTargetInPast         = "el nuevo horario ya pasó"
	msgDateTooFarAhead      = "la fecha excede la ventana de reservación anticipada"
	msgSlotNotAvailable     = "el nuevo horario no está disponible"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())
	if role == "" {
		role = domain.RoleMember
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
		Role:      role,
		Date:      req.Date,
		StartTime: req.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Not reschedulable: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrReschedulingDisabled):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Rescheduling disabled: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgReschedulingDisabled)

		case errors.Is(err, rescheduleBooking.ErrTooLateToReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Too late: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTooLateToReschedule)

		case errors.Is(err, rescheduleBooking.ErrNotOperatingDay):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Not an operating day: date=%s", req.Date)
			handlers.RespondUnprocessable(w, msgNotOperatingDay)

		case errors.Is(err, rescheduleBooking.ErrInvalidTimeSlot):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid time slot: start=%s", req.StartTime)
			handlers.RespondUnprocessable(w, msgInvalidTimeSlot)

		case errors.Is(err, rescheduleBooking.ErrTargetInPast):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Target in past: booking_id=%d", bookingID)
			handlers.RespondUnprocessable(w, msgTargetInPast)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarAhead):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Date too far ahead: date=%s", req.Date)
			handlers.RespondUnprocessable(w, msgDateTooFarAhead)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d, date=%s, start=%s",
				bookingID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking moved: booking_id=%d, date=%s, start=%s",
		bookingID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
