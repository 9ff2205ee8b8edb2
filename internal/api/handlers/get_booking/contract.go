package get_booking

import (
	"context"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/domain"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id, requesterID int64, role domain.Role) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
