package get_availability

import (
	"errors"
	"net/http"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers"
	getAvailability "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/get_availability"
)

const (
	msgMissingCourtType = "falta el parámetro court_type"
	msgInvalidDate      = "formato de fecha inválido, se espera YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?court_type={type}&date={YYYY-MM-DD}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &getAvailability.Request{
		CourtType: query.Get("court_type"),
		Date:      query.Get("date"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidCourtType):
			h.logger.Warn("GET /availability - Missing court type")
			handlers.RespondBadRequest(w, msgMissingCourtType)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /availability - Invalid date: %s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /availability - Failed to compute grid: court_type=%s, date=%s, error=%v",
				req.CourtType, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Grid computed: court_type=%s, date=%s, slots=%d",
		req.CourtType, req.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
