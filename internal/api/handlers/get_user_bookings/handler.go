package get_user_bookings

import (
	"errors"
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
	msgInvalidUserID = "ID de usuario inválido"
	msgMissingUserID = "falta el ID del usuario"
	msgForbidden     = "acceso denegado"
	msgInvalidStatus = "estado de reservación inválido"
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

// Handle GET /api/v1/users/{userId}/bookings?status={status}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())
	if role == "" {
		role = domain.RoleMember
	}

	req := &models.GetUserBookingsRequest{
		UserID:      userID,
		RequesterID: requesterID,
		Role:        role,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/bookings - Access denied: user_id=%d, requester_id=%d",
				userID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/bookings - Invalid status filter: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/bookings - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/bookings - Retrieved %d bookings: user_id=%d", result.Total, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
