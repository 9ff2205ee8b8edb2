package create_booking

import (
	"errors"
	"net/http"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/middleware"
	createHold "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgMissingUserID      = "falta el ID del usuario"
	msgInvalidInput       = "datos de la solicitud inválidos"
	msgCourtNotFound      = "cancha no encontrada"
	msgCourtInactive      = "la cancha está fuera de servicio"
	msgNotOperatingDay    = "la cancha no opera en la fecha seleccionada"
	msgInvalidTimeSlot    = "horario inválido para este tipo de cancha"
	msgTooLateToBook      = "es demasiado tarde para reservar este horario"
	msgDateTooFarAhead    = "la fecha excede la ventana de reservación anticipada"
	msgTooManyBookings    = "ya tienes el máximo de reservaciones activas"
	msgSlotNotAvailable   = "el horario seleccionado no está disponible"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createHold.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createHold.ErrCourtInactive):
			h.logger.Warn("POST /bookings - Court inactive: court_id=%d", req.CourtID)
			handlers.RespondUnprocessable(w, msgCourtInactive)

		case errors.Is(err, createHold.ErrNotOperatingDay):
			h.logger.Warn("POST /bookings - Not an operating day: court_id=%d, date=%s", req.CourtID, req.Date)
			handlers.RespondUnprocessable(w, msgNotOperatingDay)

		case errors.Is(err, createHold.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: court_id=%d, start=%s", req.CourtID, req.StartTime)
			handlers.RespondUnprocessable(w, msgInvalidTimeSlot)

		case errors.Is(err, createHold.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, createHold.ErrDateTooFarAhead):
			h.logger.Warn("POST /bookings - Date too far ahead: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondUnprocessable(w, msgDateTooFarAhead)

		case errors.Is(err, createHold.ErrTooManyActiveBookings):
			h.logger.Warn("POST /bookings - Too many active bookings: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgTooManyBookings)

		case errors.Is(err, createHold.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: court_id=%d, date=%s, start=%s",
				req.CourtID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /bookings - Failed to create hold: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Hold created: booking_id=%d, user_id=%d, court_id=%d, expires_at=%v",
		result.ID, userID, req.CourtID, result.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
