package get_availability

import (
	"time"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
)

// validateRequest checks the query parameters.
func validateRequest(req *Request) error {
	if req.CourtType == "" {
		return ErrInvalidCourtType
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
