package get_court_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/middleware"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings/models"
)

const (
	msgInvalidCourtID = "ID de cancha inválido"
	msgMissingUserID  = "falta el ID del usuario"
	msgForbidden      = "acceso denegado"
	msgInvalidFilter  = "filtros de búsqueda inválidos"
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

// Handle GET /api/v1/courts/{courtId}/bookings?from={RFC3339}&to={RFC3339}&status={status}&include_inactive={bool}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/bookings - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	if _, ok := middleware.GetUserID(r.Context()); !ok {
		h.logger.Warn("GET /courts/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())
	if role == "" {
		role = domain.RoleMember
	}

	query := r.URL.Query()
	req := &models.GetCourtBookingsRequest{
		CourtID:         courtID,
		Role:            role,
		IncludeInactive: query.Get("include_inactive") == "true",
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/bookings - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		req.StartUTC = &parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/bookings - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		req.EndUTC = &parsed
	}

	result, err := h.service.GetCourtBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /courts/{id}/bookings - Access denied: court_id=%d, role=%s", courtID, role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/bookings - Invalid filter: court_id=%d", courtID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /courts/{id}/bookings - Failed: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/bookings - Retrieved %d bookings: court_id=%d", result.Total, courtID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
